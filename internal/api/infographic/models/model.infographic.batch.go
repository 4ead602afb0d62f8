package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InfographicBatchStatus định nghĩa các trạng thái của batch
const (
	InfographicBatchStatusPending    = "pending"    // Chờ chạy
	InfographicBatchStatusGenerating = "generating" // Đang sinh tài liệu và trích xuất SVG
	InfographicBatchStatusCompleted  = "completed"  // Có ít nhất một biến thể thành công
	InfographicBatchStatusFailed     = "failed"     // Không có biến thể nào thành công
)

// InfographicVariant kết quả của một biến thể trong batch (embedded document)
type InfographicVariant struct {
	Slot         int    `json:"slot" bson:"slot"`                                     // Số thứ tự biến thể (1-based, khớp thư mục variant_<n>)
	Success      bool   `json:"success" bson:"success"`                               // Biến thể có SVG hợp lệ hay không
	Reason       string `json:"reason,omitempty" bson:"reason,omitempty"`             // Phân loại lý do thất bại, rỗng khi thành công
	Message      string `json:"message" bson:"message"`                               // "Success: N bytes" hoặc mô tả lỗi
	ArtifactPath string `json:"artifactPath,omitempty" bson:"artifactPath,omitempty"` // Đường dẫn file SVG trên đĩa
	ByteSize     int64  `json:"byteSize" bson:"byteSize"`                             // Kích thước file SVG (bytes)
}

// InfographicBatch đại diện cho một lần chạy pipeline sinh infographic
// Collection: infographic_batches
type InfographicBatch struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // ID của batch

	// ===== BATCH INFO =====
	Topic        string `json:"topic" bson:"topic" index:"single:1"`                     // Chủ đề infographic
	Style        string `json:"style,omitempty" bson:"style,omitempty"`                  // Gợi ý phong cách
	Status       string `json:"status" bson:"status" index:"single:1" default:"pending"` // Trạng thái: pending, generating, completed, failed
	TargetCount  int    `json:"targetCount" bson:"targetCount"`                          // Số biến thể muốn sinh
	SuccessCount int    `json:"successCount" bson:"successCount"`                        // Số biến thể thành công

	// ===== RESULTS =====
	Variants  []InfographicVariant `json:"variants,omitempty" bson:"variants,omitempty"`   // Kết quả từng biến thể
	BatchName string               `json:"batchName,omitempty" bson:"batchName,omitempty"` // Tên thư mục batch (api_batch_<ts>_<hash>_<topic>)
	OutputDir string               `json:"outputDir,omitempty" bson:"outputDir,omitempty"` // Đường dẫn thư mục batch trên đĩa
	Error     string               `json:"error,omitempty" bson:"error,omitempty"`         // Lỗi mức batch nếu có

	// ===== TIMESTAMPS =====
	StartedAt      int64   `json:"startedAt,omitempty" bson:"startedAt,omitempty"`           // Thời gian bắt đầu chạy pipeline
	CompletedAt    int64   `json:"completedAt,omitempty" bson:"completedAt,omitempty"`       // Thời gian hoàn thành
	ElapsedSeconds float64 `json:"elapsedSeconds,omitempty" bson:"elapsedSeconds,omitempty"` // Tổng thời gian chạy (giây)
	CreatedAt      int64   `json:"createdAt" bson:"createdAt" index:"single:1"`              // Thời gian tạo
	UpdatedAt      int64   `json:"updatedAt" bson:"updatedAt"`                               // Thời gian cập nhật
}
