// Package database - Test parse tag index từ struct model.
package database

import (
	"errors"
	"testing"
)

func TestParseIndexTag(t *testing.T) {
	// Tag đơn: index:"single:1"
	result := parseIndexTag("single:1")
	if len(result) != 1 {
		t.Fatalf("tag đơn phải cho 1 cấu hình, có %d", len(result))
	}
	if result[0]["single"] != "1" {
		t.Errorf("cấu hình single sai: %v", result[0])
	}

	// Nhiều cấu hình phân cách bằng dấu chấm phẩy
	result = parseIndexTag("single:1;text,order:-1")
	if len(result) != 2 {
		t.Fatalf("tag kép phải cho 2 cấu hình, có %d", len(result))
	}
	if _, ok := result[1]["text"]; !ok {
		t.Errorf("cấu hình thứ hai phải có key text: %v", result[1])
	}
	if result[1]["order"] != "-1" {
		t.Errorf("order của cấu hình thứ hai sai: %v", result[1])
	}
}

func TestParseOrder(t *testing.T) {
	if got := parseOrder("single:1,order:-1"); got != -1 {
		t.Errorf("tag chứa order:-1 phải trả về -1, có %d", got)
	}
	if got := parseOrder("single:1"); got != 1 {
		t.Errorf("tag không có order phải mặc định 1, có %d", got)
	}
}

func TestIsIndexExistsError(t *testing.T) {
	if isIndexExistsError(nil) {
		t.Error("lỗi nil không được coi là index đã tồn tại")
	}
	if !isIndexExistsError(errors.New("Index with name: topic_1 already exists with different options")) {
		t.Error("thông báo already exists phải được nhận ra")
	}
	if !isIndexExistsError(errors.New("E11000 duplicate key error")) {
		t.Error("thông báo duplicate phải được nhận ra")
	}
	if isIndexExistsError(errors.New("connection refused")) {
		t.Error("lỗi khác không được coi là index đã tồn tại")
	}
}
