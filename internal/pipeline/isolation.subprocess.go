package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"meta_infographic/internal/logger"
	"meta_infographic/internal/render"
)

// SubprocessStrategy chạy mỗi lần trích xuất trong một process extractor riêng.
// Browser crash hay leak bộ nhớ trong một lần trích xuất chỉ giết process con,
// không ảnh hưởng server. Các ngưỡng và viewport truyền xuống extractor qua flag.
type SubprocessStrategy struct {
	Bin      string          // Đường dẫn binary extractor
	Viewport render.Viewport // Viewport cho browser của extractor
	Gates    Gates           // Bộ ngưỡng truyền xuống extractor
}

// NewSubprocessStrategy dựng strategy với binary extractor cho trước
func NewSubprocessStrategy(bin string, viewport render.Viewport, gates Gates) *SubprocessStrategy {
	return &SubprocessStrategy{Bin: bin, Viewport: viewport, Gates: gates}
}

// Name trả về tên đăng ký của chiến lược
func (s *SubprocessStrategy) Name() string {
	return StrategySubprocess
}

// Extract chạy binary extractor rồi đọc report JSON từ dòng cuối của stdout.
// Giao thức: extractor in log tiến trình qua stderr, stdout chỉ chứa đúng
// một dòng report JSON; exit code khác 0 nghĩa là trích xuất thất bại.
func (s *SubprocessStrategy) Extract(ctx context.Context, req ExtractionRequest) *ExtractionReport {
	log := logger.GetAppLogger().WithFields(map[string]interface{}{
		"module":  "pipeline",
		"variant": req.VariantName,
		"bin":     s.Bin,
	})
	log.Info("🖼️ [EXTRACTION] Chạy extractor subprocess")

	if ctx.Err() != nil {
		return reportFromContext(ctx)
	}

	cmd := exec.CommandContext(ctx, s.Bin, s.buildArgs(req)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	// Context chết thì process con đã bị giết, output không còn tin được
	if ctx.Err() != nil {
		return reportFromContext(ctx)
	}

	if report, ok := parseReport(stdout.Bytes()); ok {
		if report.Success {
			log.WithField("bytes", report.FileSize).Info("🖼️ [EXTRACTION] Extractor subprocess trả về thành công")
		} else {
			log.WithFields(map[string]interface{}{
				"reason":  report.Reason,
				"message": report.Message,
			}).Warn("🖼️ [EXTRACTION] Extractor subprocess trả về thất bại")
		}
		return report
	}

	// Không đọc được report: extractor chết trước khi kịp in, hoặc binary sai
	detail := strings.TrimSpace(stderr.String())
	if detail == "" && runErr != nil {
		detail = runErr.Error()
	}
	message := fmt.Sprintf("Subprocess failed: %s", detail)
	if runErr == nil {
		message = "Subprocess error: extractor exited without a report"
	}

	log.WithField("error", detail).Error("🖼️ [EXTRACTION] Extractor subprocess không trả về report")
	return &ExtractionReport{Success: false, Reason: ReasonIsolationFailure, Message: message}
}

// buildArgs dựng danh sách flag truyền cho binary extractor
func (s *SubprocessStrategy) buildArgs(req ExtractionRequest) []string {
	return []string{
		"-input", req.DocumentPath,
		"-output", req.OutputPath,
		"-name", req.VariantName,
		"-viewport-width", strconv.FormatInt(s.Viewport.Width, 10),
		"-viewport-height", strconv.FormatInt(s.Viewport.Height, 10),
		"-load-timeout", s.Gates.LoadTimeout.String(),
		"-runtime-settle", s.Gates.RuntimeSettle.String(),
		"-runtime-retry", s.Gates.RuntimeRetry.String(),
		"-output-timeout", s.Gates.OutputTimeout.String(),
		"-output-poll", s.Gates.OutputPoll.String(),
		"-validate-settle", s.Gates.ValidateSettle.String(),
		"-min-children", strconv.Itoa(s.Gates.MinChildren),
	}
}

// parseReport tìm dòng report JSON hợp lệ cuối cùng trong stdout của extractor.
// Quét từ dưới lên để log lạc vào stdout (nếu có) không che mất report.
func parseReport(stdout []byte) (*ExtractionReport, bool) {
	lines := strings.Split(strings.TrimSpace(string(stdout)), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var report ExtractionReport
		if err := json.Unmarshal([]byte(line), &report); err == nil {
			return &report, true
		}
	}
	return nil, false
}
