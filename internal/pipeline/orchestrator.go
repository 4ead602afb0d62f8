package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"meta_infographic/internal/common"
	"meta_infographic/internal/logger"
)

// Options là tham số vận hành của orchestrator, map thẳng từ config
type Options struct {
	OutputRoot      string        // Thư mục gốc chứa các batch
	BatchPrefix     string        // Prefix tên thư mục batch
	DefaultVariants int           // Số biến thể khi request không chỉ định
	MaxVariants     int           // Trần số biến thể cho một request
	Stagger         time.Duration // Giãn cách khởi động giữa các slot trích xuất
	AttemptTimeout  time.Duration // Deadline cứng cho một lần trích xuất, 0 = không giới hạn
	BatchTimeout    time.Duration // Deadline cho cả batch, 0 = không giới hạn
}

// DefaultOptions trả về bộ tham số chuẩn của pipeline
func DefaultOptions() Options {
	return Options{
		OutputRoot:      "generated",
		BatchPrefix:     "api_batch",
		DefaultVariants: 3,
		MaxVariants:     5,
		Stagger:         3 * time.Second,
		AttemptTimeout:  120 * time.Second,
	}
}

// Orchestrator chạy trọn một batch: chuẩn bị thư mục, sinh tài liệu song
// song, trích xuất giãn cách rồi gom kết quả theo slot
type Orchestrator struct {
	generator Generator
	strategy  IsolationStrategy
	opts      Options
}

// NewOrchestrator dựng orchestrator; các field rỗng trong opts lấy giá trị mặc định
func NewOrchestrator(generator Generator, strategy IsolationStrategy, opts Options) *Orchestrator {
	defaults := DefaultOptions()
	if opts.OutputRoot == "" {
		opts.OutputRoot = defaults.OutputRoot
	}
	if opts.BatchPrefix == "" {
		opts.BatchPrefix = defaults.BatchPrefix
	}
	if opts.DefaultVariants <= 0 {
		opts.DefaultVariants = defaults.DefaultVariants
	}
	if opts.MaxVariants <= 0 {
		opts.MaxVariants = defaults.MaxVariants
	}
	if opts.MaxVariants < opts.DefaultVariants {
		opts.MaxVariants = opts.DefaultVariants
	}

	return &Orchestrator{
		generator: generator,
		strategy:  strategy,
		opts:      opts,
	}
}

// ResolveVariants quy đổi số biến thể client yêu cầu về giá trị thực sự
// sẽ chạy: 0 hoặc âm lấy mặc định, vượt trần bị cắt về trần
func (o *Orchestrator) ResolveVariants(requested int) int {
	if requested <= 0 {
		return o.opts.DefaultVariants
	}
	if requested > o.opts.MaxVariants {
		return o.opts.MaxVariants
	}
	return requested
}

// Run chạy một batch từ đầu đến cuối. Error chỉ trả về cho thất bại mức
// batch: chủ đề rỗng, không tạo được thư mục, không sinh được tài liệu nào
// hoặc không trích xuất được SVG nào. Slot lẻ tẻ hỏng không phải error,
// lý do của chúng nằm trong BatchResult.Variants.
//
// Khi batch đã chạy (đã qua bước tạo thư mục), result luôn khác nil kể cả
// lúc error: vẫn đủ N slot kèm lý do từng slot và elapsed, để caller ghi
// lịch sử chi tiết. Result nil chỉ xảy ra với lỗi trước khi chạy.
func (o *Orchestrator) Run(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	start := time.Now()
	log := logger.WithModule("pipeline")

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return nil, common.ErrTopicEmpty
	}

	total := o.ResolveVariants(req.Variants)

	if o.opts.BatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.BatchTimeout)
		defer cancel()
	}

	layout := NewLayout(o.opts.OutputRoot, o.opts.BatchPrefix, topic, time.Now())
	if err := layout.EnsureBatchDir(); err != nil {
		log.WithField("error", err.Error()).Error("🎨 [PIPELINE] Không tạo được thư mục batch")
		return nil, common.NewError(common.ErrCodePipelineBatch, "Không tạo được thư mục batch", common.StatusInternalServerError, err.Error())
	}

	// Từ đây mọi log mang sẵn batch_id
	log = logger.WithModuleAndBatch("pipeline", layout.BatchName)

	log.WithFields(map[string]interface{}{
		"topic":    topic,
		"variants": total,
	}).Info("🎨 [PIPELINE] Bắt đầu batch")

	outcomes := o.generateDocuments(ctx, layout, topic, req.Style, total)

	generated := 0
	for _, outcome := range outcomes {
		if outcome.Failure == nil {
			generated++
		}
	}
	if generated == 0 {
		log.Error("🎨 [PIPELINE] Không sinh được tài liệu HTML nào")
		// Không gọi bước trích xuất nữa, các slot giữ nguyên lý do từ bước sinh
		return o.buildResult(layout, topic, heldResults(layout, outcomes), 0, time.Since(start)), common.ErrBatchNoDocuments
	}
	log.Infof("🎨 [PIPELINE] Đã sinh %d/%d tài liệu HTML, chuyển sang trích xuất", generated, total)

	results := o.extractDocuments(ctx, layout, outcomes)

	succeeded := 0
	for _, result := range results {
		if result.Success {
			succeeded++
		}
	}
	elapsed := time.Since(start)

	if succeeded == 0 {
		log.Error("🎨 [PIPELINE] Không trích xuất được SVG nào")
		return o.buildResult(layout, topic, results, 0, elapsed), common.ErrBatchNoArtifacts
	}

	log.WithFields(map[string]interface{}{
		"succeeded": fmt.Sprintf("%d/%d", succeeded, total),
		"elapsed":   elapsed.Round(time.Millisecond).String(),
	}).Info("🎨 [PIPELINE] Batch hoàn tất")

	return o.buildResult(layout, topic, results, succeeded, elapsed), nil
}

// buildResult gom các field bất biến của BatchResult, dùng chung cho cả ba
// đường ra của Run
func (o *Orchestrator) buildResult(layout Layout, topic string, results []VariantResult, succeeded int, elapsed time.Duration) *BatchResult {
	return &BatchResult{
		BatchName: layout.BatchName,
		OutputDir: layout.BatchDir,
		Topic:     topic,
		Variants:  results,
		Succeeded: succeeded,
		Elapsed:   elapsed,
	}
}

// heldResults chuyển outcome của bước sinh thành VariantResult khi bước
// trích xuất không chạy: mỗi slot giữ chỗ với lý do thất bại của chính nó
func heldResults(layout Layout, outcomes []generationOutcome) []VariantResult {
	results := make([]VariantResult, len(outcomes))
	for slot, outcome := range outcomes {
		result := VariantResult{
			Slot:         slot,
			DocumentPath: outcome.DocumentPath,
			OutputPath:   layout.OutputPath(slot),
		}
		if outcome.Failure != nil {
			result.Reason = outcome.Failure.Reason
			result.Message = outcome.Failure.Message
		}
		results[slot] = result
	}
	return results
}
