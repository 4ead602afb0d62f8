package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"meta_infographic/internal/logger"
	"meta_infographic/internal/utility"
)

// extractDocuments trích xuất SVG cho các slot đã có tài liệu HTML.
// Các slot chạy song song nhưng khởi động lệch nhau Stagger (slot thứ k
// trong hàng đợi chờ k*Stagger) để các browser không giành tài nguyên cùng
// lúc. Slot hỏng từ bước sinh được giữ chỗ với lý do ban đầu của nó.
func (o *Orchestrator) extractDocuments(ctx context.Context, layout Layout, outcomes []generationOutcome) []VariantResult {
	results := make([]VariantResult, len(outcomes))

	var wg sync.WaitGroup
	delay := time.Duration(0)
	for slot := range outcomes {
		outcome := outcomes[slot]
		if outcome.Failure != nil {
			results[slot] = VariantResult{
				Slot:       slot,
				Success:    false,
				Reason:     outcome.Failure.Reason,
				Message:    outcome.Failure.Message,
				OutputPath: layout.OutputPath(slot),
			}
			continue
		}

		wg.Add(1)
		go func(slot int, documentPath string, startDelay time.Duration) {
			defer wg.Done()
			utility.GoProtect(func() {
				results[slot] = o.extractOne(ctx, layout, slot, documentPath, startDelay)
			})
			// GoProtect nuốt panic nên slot panic còn nguyên zero value
			if results[slot].Message == "" {
				results[slot] = VariantResult{
					Slot:         slot,
					Reason:       ReasonIsolationFailure,
					Message:      "Error: variant extraction panicked",
					DocumentPath: documentPath,
					OutputPath:   layout.OutputPath(slot),
				}
			}
		}(slot, outcome.DocumentPath, delay)
		delay += o.opts.Stagger
	}
	wg.Wait()

	return results
}

// extractOne đợi tới lượt của slot rồi giao cho chiến lược cách ly xử lý
// trong hạn AttemptTimeout
func (o *Orchestrator) extractOne(ctx context.Context, layout Layout, slot int, documentPath string, startDelay time.Duration) VariantResult {
	variantName := VariantDirName(slot)
	outputPath := layout.OutputPath(slot)
	log := logger.GetAppLogger().WithFields(map[string]interface{}{
		"module":  "pipeline",
		"variant": variantName,
	})

	if startDelay > 0 {
		log.Infof("🖼️ [EXTRACTION] Đợi %s trước khi trích xuất %s", startDelay, variantName)
	}
	if fail := sleepCtx(ctx, startDelay); fail != nil {
		return VariantResult{
			Slot:         slot,
			Reason:       fail.Reason,
			Message:      fail.Message,
			DocumentPath: documentPath,
			OutputPath:   outputPath,
		}
	}

	attemptCtx := ctx
	cancel := context.CancelFunc(func() {})
	if o.opts.AttemptTimeout > 0 {
		attemptCtx, cancel = context.WithTimeout(ctx, o.opts.AttemptTimeout)
	}
	defer cancel()

	report := o.strategy.Extract(attemptCtx, ExtractionRequest{
		DocumentPath: documentPath,
		OutputPath:   outputPath,
		VariantName:  variantName,
	})

	// Deadline của attempt thắng mọi report khác; deadline của cả batch
	// (ctx cha) thì giữ nguyên lý do từ contextFailure
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		report = &ExtractionReport{
			Success: false,
			Reason:  ReasonTimeout,
			Message: fmt.Sprintf("Extraction timeout (%ds)", int(o.opts.AttemptTimeout.Seconds())),
		}
	}

	result := VariantResult{
		Slot:         slot,
		Success:      report.Success,
		Message:      report.Message,
		DocumentPath: documentPath,
		OutputPath:   outputPath,
		FileSize:     report.FileSize,
		Children:     report.Children,
		TextElements: report.TextElements,
	}
	if !report.Success {
		result.Reason = report.Reason
		if result.Reason == "" {
			result.Reason = ReasonIsolationFailure
		}
		log.WithFields(map[string]interface{}{
			"reason":  result.Reason,
			"message": result.Message,
		}).Warn("🖼️ [EXTRACTION] Trích xuất biến thể thất bại")
		return result
	}

	log.WithField("bytes", result.FileSize).Info("🖼️ [EXTRACTION] Trích xuất biến thể thành công")
	return result
}
