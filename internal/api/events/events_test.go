// Package events - Test phát và nhận event thay đổi dữ liệu.
package events

import (
	"context"
	"testing"
	"time"
)

func TestEmitDataChanged_GoiHandlerDaDangKy(t *testing.T) {
	received := make(chan DataChangeEvent, 1)
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		received <- e
	})

	want := DataChangeEvent{
		CollectionName: "infographic_batches",
		Operation:      OpUpdate,
		Document:       map[string]interface{}{"status": "completed"},
	}
	EmitDataChanged(context.Background(), want)

	select {
	case got := <-received:
		if got.CollectionName != want.CollectionName {
			t.Errorf("CollectionName sai: muốn %s, có %s", want.CollectionName, got.CollectionName)
		}
		if got.Operation != OpUpdate {
			t.Errorf("Operation sai: muốn %s, có %s", OpUpdate, got.Operation)
		}
		if got.Document == nil {
			t.Error("Document không được nil với operation update")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler không nhận được event trong 2 giây")
	}
}

func TestEmitDataChanged_PanicTrongHandlerKhongAnhHuongHandlerKhac(t *testing.T) {
	received := make(chan struct{}, 1)
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		if e.CollectionName == "panic_test" {
			panic("handler lỗi")
		}
	})
	OnDataChanged(func(ctx context.Context, e DataChangeEvent) {
		if e.CollectionName == "panic_test" {
			received <- struct{}{}
		}
	})

	EmitDataChanged(context.Background(), DataChangeEvent{
		CollectionName: "panic_test",
		Operation:      OpInsert,
	})

	select {
	case <-received:
		// Handler thứ hai vẫn chạy dù handler đầu panic
	case <-time.After(2 * time.Second):
		t.Fatal("panic trong một handler không được chặn các handler khác")
	}
}

func TestEmitDataChanged_KhongCoHandler(t *testing.T) {
	// Không có handler nào quan tâm collection này: chỉ cần không panic
	EmitDataChanged(context.Background(), DataChangeEvent{
		CollectionName: "khong_ai_dang_ky",
		Operation:      OpDelete,
	})
}
