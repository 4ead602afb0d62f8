// Package pipeline - Test scheduler sinh tài liệu HTML song song.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"meta_infographic/internal/generation"
)

// fakeGenerator trả về nội dung dựng sẵn theo variantNumber, có thể cài lỗi
// cho từng bước của từng variant
type fakeGenerator struct {
	mu            sync.Mutex
	elementsErr   map[int]error // lỗi ListElements theo variantNumber
	documentErr   map[int]error // lỗi GenerateDocument theo variantNumber
	elementsSeen  []generation.ListElementsRequest
	documentsSeen []generation.GenerateDocumentRequest
}

func (g *fakeGenerator) ListElements(ctx context.Context, req generation.ListElementsRequest) (string, error) {
	g.mu.Lock()
	g.elementsSeen = append(g.elementsSeen, req)
	g.mu.Unlock()

	if err := g.elementsErr[req.VariantNumber]; err != nil {
		return "", err
	}
	return fmt.Sprintf(`["tiêu đề lớn", "biểu đồ cột cho variant %d"]`, req.VariantNumber), nil
}

func (g *fakeGenerator) GenerateDocument(ctx context.Context, req generation.GenerateDocumentRequest) (string, error) {
	g.mu.Lock()
	g.documentsSeen = append(g.documentsSeen, req)
	g.mu.Unlock()

	if err := g.documentErr[req.VariantNumber]; err != nil {
		return "", err
	}
	return fmt.Sprintf("<html><body>variant %d</body></html>", req.VariantNumber), nil
}

// documentRequestFor tìm request sinh tài liệu của một variantNumber
func (g *fakeGenerator) documentRequestFor(variantNumber int) (generation.GenerateDocumentRequest, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, req := range g.documentsSeen {
		if req.VariantNumber == variantNumber {
			return req, true
		}
	}
	return generation.GenerateDocumentRequest{}, false
}

func (g *fakeGenerator) documentCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.documentsSeen)
}

func preparedLayout(t *testing.T) Layout {
	t.Helper()
	layout := NewLayout(t.TempDir(), "api_batch", "coffee", time.Now())
	if err := layout.EnsureBatchDir(); err != nil {
		t.Fatalf("không tạo được thư mục batch cho test: %v", err)
	}
	return layout
}

func TestGenerateDocumentsAllSlots(t *testing.T) {
	gen := &fakeGenerator{}
	o := NewOrchestrator(gen, nil, Options{OutputRoot: t.TempDir()})
	layout := preparedLayout(t)

	outcomes := o.generateDocuments(context.Background(), layout, "coffee", "", 3)

	if len(outcomes) != 3 {
		t.Fatalf("phải có đúng 3 outcome, nhận %d", len(outcomes))
	}
	for i, outcome := range outcomes {
		if outcome.Slot != i {
			t.Errorf("outcome[%d].Slot = %d, kết quả phải theo đúng thứ tự slot", i, outcome.Slot)
		}
		if outcome.Failure != nil {
			t.Errorf("slot %d phải sinh thành công, nhận: %s", i, outcome.Failure.Message)
			continue
		}
		data, err := os.ReadFile(outcome.DocumentPath)
		if err != nil {
			t.Errorf("slot %d phải có file HTML trên đĩa: %v", i, err)
			continue
		}
		want := fmt.Sprintf("<html><body>variant %d</body></html>", i+1)
		if string(data) != want {
			t.Errorf("nội dung file của slot %d sai: %q", i, string(data))
		}
	}

	// Mỗi variant phải nhận đúng số thứ tự 1-based và tổng số biến thể
	for _, req := range gen.elementsSeen {
		if req.VariantNumber < 1 || req.VariantNumber > 3 || req.TotalVariants != 3 {
			t.Errorf("request elements sai số thứ tự: %+v", req)
		}
	}
}

func TestGenerateDocumentsElementsFallback(t *testing.T) {
	gen := &fakeGenerator{elementsErr: map[int]error{2: errors.New("quota exceeded")}}
	o := NewOrchestrator(gen, nil, Options{OutputRoot: t.TempDir()})
	layout := preparedLayout(t)

	outcomes := o.generateDocuments(context.Background(), layout, "coffee", "", 3)

	if outcomes[1].Failure != nil {
		t.Fatalf("lỗi elements không được làm hỏng slot, nhận: %s", outcomes[1].Failure.Message)
	}
	req, found := gen.documentRequestFor(2)
	if !found {
		t.Fatal("variant 2 vẫn phải được sinh tài liệu")
	}
	if req.Elements != "basic elements" {
		t.Errorf("elements của variant 2 phải hạ cấp xuống %q, nhận %q", "basic elements", req.Elements)
	}
}

func TestGenerateDocumentsPartialFailure(t *testing.T) {
	gen := &fakeGenerator{documentErr: map[int]error{3: errors.New("safety block")}}
	o := NewOrchestrator(gen, nil, Options{OutputRoot: t.TempDir()})
	layout := preparedLayout(t)

	outcomes := o.generateDocuments(context.Background(), layout, "coffee", "", 3)

	if outcomes[0].Failure != nil || outcomes[1].Failure != nil {
		t.Error("slot 0 và 1 phải sinh thành công")
	}
	failure := outcomes[2].Failure
	if failure == nil {
		t.Fatal("slot 2 phải thất bại")
	}
	if failure.Reason != ReasonGenerationFailed {
		t.Errorf("Reason = %s, muốn %s", failure.Reason, ReasonGenerationFailed)
	}
	if want := "Error: "; len(failure.Message) < len(want) || failure.Message[:len(want)] != want {
		t.Errorf("Message phải có dạng Error: <chi tiết>, nhận %q", failure.Message)
	}
}

func TestGenerateDocumentsStyleThreadedThrough(t *testing.T) {
	gen := &fakeGenerator{}
	o := NewOrchestrator(gen, nil, Options{OutputRoot: t.TempDir()})
	layout := preparedLayout(t)

	o.generateDocuments(context.Background(), layout, "coffee", "hand-drawn sketch", 2)

	gen.mu.Lock()
	defer gen.mu.Unlock()
	for _, req := range gen.documentsSeen {
		if req.Style != "hand-drawn sketch" {
			t.Errorf("style phải được truyền nguyên vẹn tới mọi variant, nhận %q", req.Style)
		}
	}
}
