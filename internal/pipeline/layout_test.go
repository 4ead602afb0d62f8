// Package pipeline - Test cách đặt tên thư mục batch và làm sạch topic.
package pipeline

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSafeTopic(t *testing.T) {
	cases := []struct {
		name  string
		topic string
		want  string
	}{
		{"chủ đề thường", "How to Brew Coffee", "How_to_Brew_Coffee"},
		{"ký tự đặc biệt bị loại", "Coffee: The Ultimate Guide!", "Coffee_The_Ultimate_Guide"},
		{"giữ gạch ngang và gạch dưới", "state-of-the-art_AI", "state-of-the-art_AI"},
		{"tiếng Việt có dấu", "Quy trình pha cà phê", "Quy_trình_pha_cà_phê"},
		{"nhiều khoảng trắng liền nhau", "a   b\tc", "a_b_c"},
		{"khoảng trắng đầu cuối", "  coffee  ", "coffee"},
		{"chuỗi rỗng", "", ""},
		{"chỉ còn ký tự bị loại", "!@#$%^", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := SafeTopic(c.topic); got != c.want {
				t.Errorf("SafeTopic(%q) = %q, muốn %q", c.topic, got, c.want)
			}
		})
	}
}

func TestSafeTopicTruncate(t *testing.T) {
	long := strings.Repeat("a", 60) + " " + strings.Repeat("b", 10)
	got := SafeTopic(long)
	if len([]rune(got)) != 50 {
		t.Errorf("SafeTopic phải cắt còn 50 ký tự, nhận được %d: %q", len([]rune(got)), got)
	}
	if got != strings.Repeat("a", 50) {
		t.Errorf("phần giữ lại phải là 50 ký tự đầu, nhận được %q", got)
	}
}

func TestNewLayoutBatchName(t *testing.T) {
	now := time.Unix(1736900000, 0)
	layout := NewLayout("generated", "api_batch", "coffee", now)

	// md5("coffee") = 24eb05d18318ac2db8b2b959315d10f2
	want := "api_batch_1736900000_24eb05d1_coffee"
	if layout.BatchName != want {
		t.Errorf("BatchName = %q, muốn %q", layout.BatchName, want)
	}
	if layout.BatchDir != filepath.Join("generated", want) {
		t.Errorf("BatchDir = %q, muốn nằm trong thư mục gốc generated", layout.BatchDir)
	}
}

func TestNewLayoutHashDependsOnTopic(t *testing.T) {
	now := time.Unix(1736900000, 0)
	a := NewLayout("generated", "api_batch", "topic a", now)
	b := NewLayout("generated", "api_batch", "topic b", now)
	if a.BatchName == b.BatchName {
		t.Errorf("hai topic khác nhau cùng thời điểm phải cho tên batch khác nhau, đều là %q", a.BatchName)
	}
}

func TestLayoutVariantPaths(t *testing.T) {
	layout := NewLayout("generated", "api_batch", "How to Brew Coffee", time.Unix(1736900000, 0))

	// md5("How to Brew Coffee") = dde81a695cb50362f2c43da40ce09703
	if layout.BatchName != "api_batch_1736900000_dde81a69_How_to_Brew_Coffee" {
		t.Fatalf("BatchName không đúng định dạng: %q", layout.BatchName)
	}

	if got := VariantDirName(0); got != "variant_1" {
		t.Errorf("VariantDirName(0) = %q, slot 0 phải hiển thị là variant_1", got)
	}
	if got := layout.VariantDir(2); got != filepath.Join(layout.BatchDir, "variant_3") {
		t.Errorf("VariantDir(2) = %q, muốn variant_3 trong thư mục batch", got)
	}
	if got := layout.DocumentPath(0); got != filepath.Join(layout.BatchDir, "variant_1", "infographic.html") {
		t.Errorf("DocumentPath(0) = %q không đúng", got)
	}
	if got := layout.OutputPath(1); got != filepath.Join(layout.BatchDir, "variant_2", "infographic.svg") {
		t.Errorf("OutputPath(1) = %q không đúng", got)
	}
}

func TestLayoutEnsureDirs(t *testing.T) {
	layout := NewLayout(t.TempDir(), "api_batch", "coffee", time.Now())

	if err := layout.EnsureBatchDir(); err != nil {
		t.Fatalf("EnsureBatchDir lỗi: %v", err)
	}
	if err := layout.EnsureVariantDir(0); err != nil {
		t.Fatalf("EnsureVariantDir lỗi: %v", err)
	}
	// Gọi lặp phải idempotent
	if err := layout.EnsureVariantDir(0); err != nil {
		t.Errorf("EnsureVariantDir gọi lần hai phải không lỗi: %v", err)
	}
}
