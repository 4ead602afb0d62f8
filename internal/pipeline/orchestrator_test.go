// Package pipeline - Test orchestrator chạy trọn batch với generator và
// strategy giả lập.
package pipeline

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"meta_infographic/internal/common"
)

func newTestOrchestrator(t *testing.T, gen Generator, strategy IsolationStrategy) *Orchestrator {
	t.Helper()
	return NewOrchestrator(gen, strategy, Options{
		OutputRoot:     t.TempDir(),
		Stagger:        0,
		AttemptTimeout: 2 * time.Second,
	})
}

func TestRunEmptyTopic(t *testing.T) {
	o := newTestOrchestrator(t, &fakeGenerator{}, &fakeStrategy{})

	for _, topic := range []string{"", "   ", "\t\n"} {
		result, err := o.Run(context.Background(), BatchRequest{Topic: topic})
		if result != nil {
			t.Errorf("topic %q không được trả về kết quả", topic)
		}
		if !errors.Is(err, common.ErrTopicEmpty) {
			t.Errorf("topic %q phải trả về ErrTopicEmpty, nhận: %v", topic, err)
		}
	}
}

func TestRunAllGenerationFailed(t *testing.T) {
	gen := &fakeGenerator{documentErr: map[int]error{
		1: errors.New("blocked"),
		2: errors.New("blocked"),
		3: errors.New("blocked"),
	}}
	strategy := &fakeStrategy{}
	o := newTestOrchestrator(t, gen, strategy)

	result, err := o.Run(context.Background(), BatchRequest{Topic: "coffee"})

	if !errors.Is(err, common.ErrBatchNoDocuments) {
		t.Errorf("phải trả về ErrBatchNoDocuments, nhận: %v", err)
	}
	if strategy.callCount() != 0 {
		t.Errorf("không được chạy trích xuất khi không có tài liệu nào, strategy bị gọi %d lần", strategy.callCount())
	}

	// Kết quả vẫn đủ slot kèm lý do để caller ghi lịch sử chi tiết
	if result == nil {
		t.Fatal("batch đã chạy thì phải có kết quả kể cả khi toàn bộ generation hỏng")
	}
	if len(result.Variants) != 3 {
		t.Fatalf("phải giữ đủ 3 slot, nhận %d", len(result.Variants))
	}
	if result.Succeeded != 0 {
		t.Errorf("Succeeded = %d, muốn 0", result.Succeeded)
	}
	for i, variant := range result.Variants {
		if variant.Success {
			t.Errorf("Variants[%d] không được thành công", i)
		}
		if variant.Reason != ReasonGenerationFailed {
			t.Errorf("Variants[%d].Reason = %q, muốn %q", i, variant.Reason, ReasonGenerationFailed)
		}
	}
	if result.Elapsed <= 0 {
		t.Errorf("Elapsed phải được ghi nhận, nhận %s", result.Elapsed)
	}
}

func TestRunAllExtractionFailed(t *testing.T) {
	failure := &ExtractionReport{Success: false, Reason: ReasonLoadTimeout, Message: "Error: load timeout"}
	strategy := &fakeStrategy{reports: map[string]*ExtractionReport{
		"variant_1": failure,
		"variant_2": failure,
		"variant_3": failure,
	}}
	o := newTestOrchestrator(t, &fakeGenerator{}, strategy)

	result, err := o.Run(context.Background(), BatchRequest{Topic: "coffee"})

	if !errors.Is(err, common.ErrBatchNoArtifacts) {
		t.Errorf("phải trả về ErrBatchNoArtifacts, nhận: %v", err)
	}
	if result == nil {
		t.Fatal("batch đã chạy thì phải có kết quả kể cả khi toàn bộ trích xuất hỏng")
	}
	if len(result.Variants) != 3 || result.Succeeded != 0 {
		t.Fatalf("phải giữ đủ 3 slot với Succeeded = 0, nhận %d slot / %d", len(result.Variants), result.Succeeded)
	}
	for i, variant := range result.Variants {
		if variant.Reason != ReasonLoadTimeout {
			t.Errorf("Variants[%d].Reason = %q, muốn %q", i, variant.Reason, ReasonLoadTimeout)
		}
	}
}

func TestRunPartialSuccess(t *testing.T) {
	// Slot giữa hỏng vì d3 không load được, hai slot còn lại vẫn ra SVG
	strategy := &fakeStrategy{reports: map[string]*ExtractionReport{
		"variant_2": {Success: false, Reason: ReasonRuntimeUnavailable, Message: "D3.js failed to load"},
	}}
	gen := &fakeGenerator{}
	o := newTestOrchestrator(t, gen, strategy)

	result, err := o.Run(context.Background(), BatchRequest{Topic: "  Quy trình pha cà phê  "})
	if err != nil {
		t.Fatalf("batch có slot thành công thì không được trả error: %v", err)
	}

	if result.Topic != "Quy trình pha cà phê" {
		t.Errorf("topic phải được trim: %q", result.Topic)
	}
	if len(result.Variants) != 3 {
		t.Fatalf("batch phải giữ đủ 3 slot, nhận %d", len(result.Variants))
	}
	if result.Succeeded != 2 {
		t.Errorf("Succeeded = %d, muốn 2", result.Succeeded)
	}
	for i, variant := range result.Variants {
		if variant.Slot != i {
			t.Errorf("Variants[%d].Slot = %d, kết quả phải theo thứ tự slot", i, variant.Slot)
		}
	}

	failed := result.Variants[1]
	if failed.Success {
		t.Error("slot variant_2 phải thất bại")
	}
	if failed.Reason != ReasonRuntimeUnavailable || failed.Message != "D3.js failed to load" {
		t.Errorf("slot hỏng phải mang đúng lý do từ report: %+v", failed)
	}

	ok := result.Variants[0]
	if !ok.Success || ok.FileSize == 0 {
		t.Errorf("slot thành công phải có FileSize: %+v", ok)
	}
	if _, err := os.Stat(ok.DocumentPath); err != nil {
		t.Errorf("tài liệu HTML của slot thành công phải nằm trên đĩa: %v", err)
	}

	if !strings.HasPrefix(result.BatchName, "api_batch_") {
		t.Errorf("BatchName = %q phải có prefix api_batch_", result.BatchName)
	}
	if info, err := os.Stat(result.OutputDir); err != nil || !info.IsDir() {
		t.Errorf("OutputDir phải tồn tại trên đĩa: %v", err)
	}
	if result.Elapsed <= 0 {
		t.Errorf("Elapsed phải dương, nhận %s", result.Elapsed)
	}
}

func TestRunVariantCountDefaultAndClamp(t *testing.T) {
	t.Run("mặc định 3 biến thể", func(t *testing.T) {
		gen := &fakeGenerator{}
		o := newTestOrchestrator(t, gen, &fakeStrategy{})

		result, err := o.Run(context.Background(), BatchRequest{Topic: "coffee"})
		if err != nil {
			t.Fatalf("Run lỗi: %v", err)
		}
		if len(result.Variants) != 3 {
			t.Errorf("request không chỉ định thì phải sinh 3 biến thể, nhận %d", len(result.Variants))
		}
		if gen.documentCalls() != 3 {
			t.Errorf("generator phải được gọi 3 lần, nhận %d", gen.documentCalls())
		}
	})

	t.Run("vượt trần thì chặn ở MaxVariants", func(t *testing.T) {
		gen := &fakeGenerator{}
		o := newTestOrchestrator(t, gen, &fakeStrategy{})

		result, err := o.Run(context.Background(), BatchRequest{Topic: "coffee", Variants: 99})
		if err != nil {
			t.Fatalf("Run lỗi: %v", err)
		}
		if len(result.Variants) != 5 {
			t.Errorf("99 biến thể phải bị chặn ở trần 5, nhận %d", len(result.Variants))
		}
	})

	t.Run("một biến thể", func(t *testing.T) {
		gen := &fakeGenerator{}
		o := newTestOrchestrator(t, gen, &fakeStrategy{})

		result, err := o.Run(context.Background(), BatchRequest{Topic: "coffee", Variants: 1})
		if err != nil {
			t.Fatalf("Run lỗi: %v", err)
		}
		if len(result.Variants) != 1 {
			t.Errorf("phải sinh đúng 1 biến thể, nhận %d", len(result.Variants))
		}
	})
}
