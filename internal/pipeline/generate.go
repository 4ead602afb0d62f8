package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"meta_infographic/internal/generation"
	"meta_infographic/internal/logger"
	"meta_infographic/internal/utility"
)

// fallbackElements dùng khi bước liệt kê elements thất bại; tài liệu vẫn
// sinh được với gợi ý tối giản này thay vì bỏ cả slot
const fallbackElements = "basic elements"

// generationOutcome là kết quả bước sinh tài liệu của một slot
type generationOutcome struct {
	Slot         int
	DocumentPath string       // Đường dẫn infographic.html đã ghi
	Failure      *StepFailure // nil khi sinh thành công
}

// generateDocuments sinh tài liệu HTML cho mọi slot song song.
// Slot hỏng không chặn slot khác; kết quả trả về đúng thứ tự slot.
func (o *Orchestrator) generateDocuments(ctx context.Context, layout Layout, topic, style string, total int) []generationOutcome {
	outcomes := make([]generationOutcome, total)

	var wg sync.WaitGroup
	for slot := 0; slot < total; slot++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			utility.GoProtect(func() {
				outcomes[slot] = o.generateOne(ctx, layout, topic, style, slot, total)
			})
			// GoProtect nuốt panic nên slot panic còn nguyên zero value
			if outcomes[slot].DocumentPath == "" && outcomes[slot].Failure == nil {
				outcomes[slot] = generationOutcome{
					Slot: slot,
					Failure: &StepFailure{
						Reason:  ReasonGenerationFailed,
						Message: "Error: variant generation panicked",
					},
				}
			}
		}(slot)
	}
	wg.Wait()

	return outcomes
}

// generateOne chạy hai bước sinh của một slot: liệt kê elements rồi sinh tài
// liệu HTML và ghi ra thư mục của slot. Bước elements thất bại chỉ hạ cấp
// xuống gợi ý tối giản, không làm slot hỏng.
func (o *Orchestrator) generateOne(ctx context.Context, layout Layout, topic, style string, slot, total int) generationOutcome {
	variantNumber := slot + 1
	log := logger.GetAppLogger().WithFields(map[string]interface{}{
		"module":  "pipeline",
		"variant": variantNumber,
	})

	elements, err := o.generator.ListElements(ctx, generation.ListElementsRequest{
		Topic:         topic,
		VariantNumber: variantNumber,
		TotalVariants: total,
	})
	if err != nil || strings.TrimSpace(elements) == "" {
		log.WithField("error", fmt.Sprintf("%v", err)).Warn("🎨 [PIPELINE] Không lấy được elements, dùng gợi ý tối giản")
		elements = fallbackElements
	}

	document, err := o.generator.GenerateDocument(ctx, generation.GenerateDocumentRequest{
		Topic:         topic,
		Elements:      elements,
		Style:         style,
		VariantNumber: variantNumber,
		TotalVariants: total,
	})
	if err != nil {
		log.WithField("error", err.Error()).Warn("🎨 [PIPELINE] Sinh tài liệu HTML thất bại")
		return generationOutcome{
			Slot:    slot,
			Failure: &StepFailure{Reason: ReasonGenerationFailed, Message: fmt.Sprintf("Error: %v", err)},
		}
	}

	if err := layout.EnsureVariantDir(slot); err != nil {
		return generationOutcome{
			Slot:    slot,
			Failure: &StepFailure{Reason: ReasonGenerationFailed, Message: fmt.Sprintf("Error: %v", err)},
		}
	}

	documentPath := layout.DocumentPath(slot)
	if err := os.WriteFile(documentPath, []byte(document), 0644); err != nil {
		return generationOutcome{
			Slot:    slot,
			Failure: &StepFailure{Reason: ReasonGenerationFailed, Message: fmt.Sprintf("Error: %v", err)},
		}
	}

	log.WithField("path", documentPath).Info("🎨 [PIPELINE] Đã ghi tài liệu HTML của biến thể")
	return generationOutcome{Slot: slot, DocumentPath: documentPath}
}
