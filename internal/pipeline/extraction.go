package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"meta_infographic/internal/render"
)

// ExtractionRequest chỉ định một lần trích xuất: đọc tài liệu HTML nào,
// ghi SVG ra đâu và nhãn nào dùng trong log
type ExtractionRequest struct {
	DocumentPath string // Đường dẫn file HTML nguồn
	OutputPath   string // Đường dẫn file SVG đích
	VariantName  string // Nhãn biến thể, ví dụ variant_2
}

// ExtractionReport là kết quả một lần trích xuất. Đây đồng thời là format
// JSON mà binary extractor in ra stdout, đúng một dòng, để process cha đọc.
type ExtractionReport struct {
	Success      bool          `json:"success"`
	Reason       FailureReason `json:"reason,omitempty"`
	Message      string        `json:"message"`
	FileSize     int64         `json:"fileSize"`
	Children     int           `json:"children,omitempty"`
	TextElements int           `json:"textElements,omitempty"`
}

// PerformExtraction lái session qua các gate, chuẩn hóa SVG rồi ghi ra file.
// Mọi sự cố đều trả về report thất bại thay vì error để kết quả slot luôn
// có lý do và message cụ thể.
func PerformExtraction(ctx context.Context, session render.Session, gates Gates, req ExtractionRequest) *ExtractionReport {
	extraction, fail := RunGates(ctx, session, gates, FileURL(req.DocumentPath))
	if fail != nil {
		return &ExtractionReport{Success: false, Reason: fail.Reason, Message: fail.Message}
	}

	content := Normalize(extraction.Content)
	if err := os.WriteFile(req.OutputPath, []byte(content), 0644); err != nil {
		return &ExtractionReport{
			Success: false,
			Reason:  ReasonIsolationFailure,
			Message: fmt.Sprintf("Error: %v", err),
		}
	}

	return &ExtractionReport{
		Success:      true,
		Message:      fmt.Sprintf("Success: %d bytes", len(content)),
		FileSize:     int64(len(content)),
		Children:     extraction.Info.Children,
		TextElements: extraction.Info.TextElements,
	}
}

// WriteReport in report dưới dạng đúng một dòng JSON. Binary extractor gọi
// hàm này cuối cùng; mọi log khác của nó phải đi qua stderr để giữ stdout sạch.
func WriteReport(w io.Writer, report *ExtractionReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode extraction report: %w", err)
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("failed to write extraction report: %w", err)
	}
	return nil
}

// FileURL đổi đường dẫn file cục bộ thành URL file:// tuyệt đối cho browser
func FileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return "file://" + abs
}

// reportFromContext dựng report thất bại khi context của attempt đã chết
// trước hoặc trong khi trích xuất
func reportFromContext(ctx context.Context) *ExtractionReport {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &ExtractionReport{Success: false, Reason: ReasonTimeout, Message: "Extraction timeout"}
	}
	return &ExtractionReport{
		Success: false,
		Reason:  ReasonTimeout,
		Message: fmt.Sprintf("Error: %v", ctx.Err()),
	}
}
