// Package pipeline điều phối vòng đời của một batch sinh infographic:
// sinh tài liệu HTML cho các biến thể song song qua model, rồi trích xuất
// SVG bằng headless browser với khởi động giãn cách giữa các biến thể.
// Mỗi batch có đúng N slot; slot hỏng vẫn giữ chỗ trong kết quả kèm lý do
// thất bại cụ thể thay vì biến mất.
package pipeline

import (
	"context"
	"time"

	"meta_infographic/internal/generation"
)

// FailureReason phân loại nguyên nhân một slot thất bại.
// Giá trị đi vào response và lịch sử batch nên không được đổi tùy tiện.
type FailureReason string

const (
	ReasonGenerationFailed    FailureReason = "generation_failed"    // Model không trả về tài liệu HTML dùng được
	ReasonLoadTimeout         FailureReason = "load_timeout"         // Tài liệu không load xong trong hạn
	ReasonRuntimeUnavailable  FailureReason = "runtime_unavailable"  // d3 không xuất hiện sau hai lần kiểm tra
	ReasonOutputMissing       FailureReason = "output_missing"       // Không thấy phần tử svg trong DOM
	ReasonInsufficientContent FailureReason = "insufficient_content" // svg có ít children hơn ngưỡng
	ReasonExtractionEmpty     FailureReason = "extraction_empty"     // Serialize trả về chuỗi rỗng
	ReasonTimeout             FailureReason = "timeout"              // Quá deadline của một lần trích xuất
	ReasonIsolationFailure    FailureReason = "isolation_failure"    // Môi trường cách ly hỏng (launch, crash, report lỗi)
)

// Generator sinh nội dung cho một biến thể qua hai bước: liệt kê elements
// rồi sinh tài liệu HTML hoàn chỉnh. *generation.Client là implementation
// dùng trong production, test dùng fake.
type Generator interface {
	ListElements(ctx context.Context, req generation.ListElementsRequest) (string, error)
	GenerateDocument(ctx context.Context, req generation.GenerateDocumentRequest) (string, error)
}

// BatchRequest là yêu cầu chạy một batch
type BatchRequest struct {
	Topic    string // Chủ đề của infographic
	Style    string // Gợi ý phong cách, rỗng = để model tự chọn
	Variants int    // Số biến thể muốn sinh, 0 = dùng mặc định của Options
}

// VariantResult là kết quả cuối cùng của một slot.
// Slot đánh số nội bộ từ 0; số biến thể hiển thị cho người dùng là Slot+1.
type VariantResult struct {
	Slot         int           // Số thứ tự slot (0-based)
	Success      bool          // Slot có SVG hợp lệ hay không
	Reason       FailureReason // Lý do thất bại, rỗng khi Success
	Message      string        // "Success: N bytes" hoặc mô tả lỗi
	DocumentPath string        // Đường dẫn infographic.html, rỗng nếu chưa sinh được
	OutputPath   string        // Đường dẫn infographic.svg (đặt sẵn kể cả khi thất bại)
	FileSize     int64         // Kích thước file SVG đã ghi, 0 khi thất bại
	Children     int           // Số children của svg lúc validate
	TextElements int           // Số phần tử text của svg lúc validate
}

// BatchResult là kết quả của cả batch sau khi mọi slot đã chạy xong
type BatchResult struct {
	BatchName string          // Tên thư mục batch, ví dụ api_batch_1736900000_24eb05d1_coffee
	OutputDir string          // Đường dẫn thư mục batch trên đĩa
	Topic     string          // Chủ đề đã trim
	Variants  []VariantResult // Đúng N phần tử, sắp theo Slot tăng dần
	Succeeded int             // Số slot thành công
	Elapsed   time.Duration   // Tổng thời gian chạy batch
}
