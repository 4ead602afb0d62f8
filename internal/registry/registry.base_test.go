// Package registry - Test generic registry: đăng ký, lookup, tạo lazy và cleanup.
package registry

import (
	"fmt"
	"testing"
)

func TestRegister_VaGet(t *testing.T) {
	r := NewRegistry[string]()

	isNew, err := r.Register("subprocess", "strategy-a")
	if err != nil {
		t.Fatalf("Register trả về lỗi: %v", err)
	}
	if !isNew {
		t.Error("đăng ký lần đầu phải trả về isNew = true")
	}

	// Đăng ký trùng tên: ghi đè, isNew = false
	isNew, err = r.Register("subprocess", "strategy-b")
	if err != nil {
		t.Fatalf("Register trả về lỗi: %v", err)
	}
	if isNew {
		t.Error("đăng ký trùng tên phải trả về isNew = false")
	}

	got, exists := r.Get("subprocess")
	if !exists {
		t.Fatal("item đã đăng ký phải tồn tại")
	}
	if got != "strategy-b" {
		t.Errorf("Get phải trả về giá trị mới nhất, có: %s", got)
	}
}

func TestRegister_TenRong(t *testing.T) {
	r := NewRegistry[int]()
	if _, err := r.Register("", 1); err == nil {
		t.Error("đăng ký với tên rỗng phải trả về lỗi")
	}
}

func TestGet_KhongTonTai(t *testing.T) {
	r := NewRegistry[int]()
	got, exists := r.Get("khong-co")
	if exists {
		t.Error("item chưa đăng ký không được tồn tại")
	}
	if got != 0 {
		t.Errorf("item không tồn tại phải trả về zero value, có: %d", got)
	}
}

func TestGetOrCreate(t *testing.T) {
	r := NewRegistry[string]()
	calls := 0
	creator := func() (string, error) {
		calls++
		return "created", nil
	}

	got, err := r.GetOrCreate("inprocess", creator)
	if err != nil {
		t.Fatalf("GetOrCreate trả về lỗi: %v", err)
	}
	if got != "created" || calls != 1 {
		t.Errorf("lần đầu phải gọi creator đúng 1 lần, có: %d", calls)
	}

	// Lần hai: trả về item đã có, không gọi lại creator
	got, err = r.GetOrCreate("inprocess", creator)
	if err != nil {
		t.Fatalf("GetOrCreate trả về lỗi: %v", err)
	}
	if got != "created" || calls != 1 {
		t.Errorf("lần hai không được gọi lại creator, số lần gọi: %d", calls)
	}
}

func TestGetOrCreate_CreatorLoi(t *testing.T) {
	r := NewRegistry[string]()
	_, err := r.GetOrCreate("x", func() (string, error) {
		return "", fmt.Errorf("lỗi tạo item")
	})
	if err == nil {
		t.Error("creator trả về lỗi thì GetOrCreate phải trả về lỗi")
	}
	if _, exists := r.Get("x"); exists {
		t.Error("item không được lưu khi creator thất bại")
	}
}

func TestNames_DaSort(t *testing.T) {
	r := NewRegistry[int]()
	r.Register("subprocess", 1)
	r.Register("inprocess", 2)
	r.Register("docker", 3)

	names := r.Names()
	want := []string{"docker", "inprocess", "subprocess"}
	if len(names) != len(want) {
		t.Fatalf("số lượng tên sai: muốn %d, có %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("danh sách tên phải được sort: muốn %v, có %v", want, names)
			break
		}
	}
}

func TestClear(t *testing.T) {
	r := NewRegistry[string]()
	r.Register("a", "item-a")

	cleaned := false
	deleted, err := r.Clear("a", func(item string) error {
		cleaned = true
		return nil
	})
	if err != nil {
		t.Fatalf("Clear trả về lỗi: %v", err)
	}
	if !deleted || !cleaned {
		t.Error("Clear phải gọi cleanup rồi xóa item")
	}
	if _, exists := r.Get("a"); exists {
		t.Error("item đã Clear không được tồn tại")
	}

	// Clear item không tồn tại: không lỗi, deleted = false
	deleted, err = r.Clear("khong-co", nil)
	if err != nil || deleted {
		t.Errorf("Clear item không tồn tại phải trả về (false, nil), có (%v, %v)", deleted, err)
	}
}

func TestClear_CleanupLoi(t *testing.T) {
	r := NewRegistry[string]()
	r.Register("a", "item-a")

	deleted, err := r.Clear("a", func(item string) error {
		return fmt.Errorf("không giải phóng được tài nguyên")
	})
	if err == nil || deleted {
		t.Error("cleanup thất bại thì item phải được giữ lại và trả về lỗi")
	}
	if _, exists := r.Get("a"); !exists {
		t.Error("item phải còn trong registry khi cleanup thất bại")
	}
}

func TestClearAll(t *testing.T) {
	r := NewRegistry[int]()
	r.Register("a", 1)
	r.Register("b", 2)

	cleaned := 0
	count, err := r.ClearAll(func(item int) error {
		cleaned++
		return nil
	})
	if err != nil {
		t.Fatalf("ClearAll trả về lỗi: %v", err)
	}
	if count != 2 || cleaned != 2 {
		t.Errorf("ClearAll phải xóa và cleanup đủ 2 items, count=%d cleaned=%d", count, cleaned)
	}
	if len(r.Names()) != 0 {
		t.Error("registry phải rỗng sau ClearAll")
	}
}
