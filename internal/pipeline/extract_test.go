// Package pipeline - Test scheduler trích xuất: giãn cách khởi động,
// giữ chỗ slot hỏng và map report về kết quả slot.
package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeStrategy ghi lại các lần gọi và trả về report dựng sẵn theo VariantName
type fakeStrategy struct {
	mu      sync.Mutex
	name    string
	reports map[string]*ExtractionReport // nil hoặc thiếu key = success mặc định
	calls   []strategyCall
	block   bool // true = treo tới khi context của attempt chết
}

type strategyCall struct {
	variant string
	at      time.Time
}

func (s *fakeStrategy) Name() string {
	if s.name == "" {
		return "fake"
	}
	return s.name
}

func (s *fakeStrategy) Extract(ctx context.Context, req ExtractionRequest) *ExtractionReport {
	s.mu.Lock()
	s.calls = append(s.calls, strategyCall{variant: req.VariantName, at: time.Now()})
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		return reportFromContext(ctx)
	}
	if report, ok := s.reports[req.VariantName]; ok && report != nil {
		return report
	}
	return &ExtractionReport{
		Success:      true,
		Message:      "Success: 1234 bytes",
		FileSize:     1234,
		Children:     7,
		TextElements: 3,
	}
}

func (s *fakeStrategy) callFor(variant string) (strategyCall, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, call := range s.calls {
		if call.variant == variant {
			return call, true
		}
	}
	return strategyCall{}, false
}

func (s *fakeStrategy) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func successfulOutcomes(layout Layout, total int) []generationOutcome {
	outcomes := make([]generationOutcome, total)
	for slot := 0; slot < total; slot++ {
		outcomes[slot] = generationOutcome{Slot: slot, DocumentPath: layout.DocumentPath(slot)}
	}
	return outcomes
}

func TestExtractDocumentsStagger(t *testing.T) {
	strategy := &fakeStrategy{}
	stagger := 50 * time.Millisecond
	o := NewOrchestrator(&fakeGenerator{}, strategy, Options{OutputRoot: t.TempDir(), Stagger: stagger, AttemptTimeout: 5 * time.Second})
	layout := preparedLayout(t)
	outcomes := successfulOutcomes(layout, 3)

	base := time.Now()
	results := o.extractDocuments(context.Background(), layout, outcomes)

	for _, result := range results {
		if !result.Success {
			t.Errorf("slot %d phải thành công: %s", result.Slot, result.Message)
		}
	}

	// Slot thứ k trong hàng đợi không được khởi động sớm hơn k*Stagger
	for slot := 0; slot < 3; slot++ {
		call, found := strategy.callFor(VariantDirName(slot))
		if !found {
			t.Fatalf("strategy phải được gọi cho %s", VariantDirName(slot))
		}
		minOffset := time.Duration(slot) * stagger
		if offset := call.at.Sub(base); offset < minOffset {
			t.Errorf("%s khởi động sau %s, phải chờ ít nhất %s", VariantDirName(slot), offset, minOffset)
		}
	}
}

func TestExtractDocumentsPrefillGenerationFailure(t *testing.T) {
	strategy := &fakeStrategy{}
	o := NewOrchestrator(&fakeGenerator{}, strategy, Options{OutputRoot: t.TempDir(), AttemptTimeout: time.Second})
	layout := preparedLayout(t)

	outcomes := successfulOutcomes(layout, 3)
	outcomes[1] = generationOutcome{
		Slot:    1,
		Failure: &StepFailure{Reason: ReasonGenerationFailed, Message: "Error: safety block"},
	}

	results := o.extractDocuments(context.Background(), layout, outcomes)

	if len(results) != 3 {
		t.Fatalf("kết quả phải giữ đủ 3 slot, nhận %d", len(results))
	}
	prefilled := results[1]
	if prefilled.Success {
		t.Error("slot hỏng từ bước sinh không thể thành công")
	}
	if prefilled.Reason != ReasonGenerationFailed || prefilled.Message != "Error: safety block" {
		t.Errorf("slot giữ chỗ phải mang nguyên lý do ban đầu: %+v", prefilled)
	}
	if prefilled.OutputPath != layout.OutputPath(1) {
		t.Errorf("OutputPath của slot giữ chỗ vẫn phải đặt sẵn: %q", prefilled.OutputPath)
	}
	if _, called := strategy.callFor("variant_2"); called {
		t.Error("strategy không được gọi cho slot đã hỏng từ bước sinh")
	}
	if strategy.callCount() != 2 {
		t.Errorf("strategy phải được gọi đúng 2 lần, nhận %d", strategy.callCount())
	}
}

func TestExtractDocumentsReportMapping(t *testing.T) {
	strategy := &fakeStrategy{reports: map[string]*ExtractionReport{
		"variant_1": {Success: false, Reason: ReasonInsufficientContent, Message: "Invalid SVG content"},
	}}
	o := NewOrchestrator(&fakeGenerator{}, strategy, Options{OutputRoot: t.TempDir(), AttemptTimeout: time.Second})
	layout := preparedLayout(t)

	results := o.extractDocuments(context.Background(), layout, successfulOutcomes(layout, 2))

	failed := results[0]
	if failed.Success {
		t.Error("variant_1 phải thất bại theo report")
	}
	if failed.Reason != ReasonInsufficientContent || failed.Message != "Invalid SVG content" {
		t.Errorf("kết quả slot phải mirror report: %+v", failed)
	}

	ok := results[1]
	if !ok.Success {
		t.Fatalf("variant_2 phải thành công: %s", ok.Message)
	}
	if ok.FileSize != 1234 || ok.Children != 7 || ok.TextElements != 3 {
		t.Errorf("số liệu từ report phải được giữ nguyên: %+v", ok)
	}
	if ok.DocumentPath != layout.DocumentPath(1) || ok.OutputPath != layout.OutputPath(1) {
		t.Errorf("đường dẫn của slot sai: %+v", ok)
	}
}

func TestExtractDocumentsAttemptTimeout(t *testing.T) {
	strategy := &fakeStrategy{block: true}
	o := NewOrchestrator(&fakeGenerator{}, strategy, Options{OutputRoot: t.TempDir(), AttemptTimeout: 30 * time.Millisecond})
	layout := preparedLayout(t)

	results := o.extractDocuments(context.Background(), layout, successfulOutcomes(layout, 1))

	result := results[0]
	if result.Success {
		t.Fatal("attempt quá hạn thì slot phải thất bại")
	}
	if result.Reason != ReasonTimeout {
		t.Errorf("Reason = %s, muốn %s", result.Reason, ReasonTimeout)
	}
	if !strings.HasPrefix(result.Message, "Extraction timeout") {
		t.Errorf("Message = %q, phải bắt đầu bằng Extraction timeout", result.Message)
	}
}

func TestExtractDocumentsReasonDefault(t *testing.T) {
	// Report thất bại mà quên Reason thì scheduler phải gán isolation_failure
	strategy := &fakeStrategy{reports: map[string]*ExtractionReport{
		"variant_1": {Success: false, Message: "Subprocess failed: killed"},
	}}
	o := NewOrchestrator(&fakeGenerator{}, strategy, Options{OutputRoot: t.TempDir(), AttemptTimeout: time.Second})
	layout := preparedLayout(t)

	results := o.extractDocuments(context.Background(), layout, successfulOutcomes(layout, 1))

	if results[0].Reason != ReasonIsolationFailure {
		t.Errorf("Reason = %s, muốn %s", results[0].Reason, ReasonIsolationFailure)
	}
}
