package common

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// HTTP Status Code Constants
const (
	// Success Codes (2xx)
	StatusOK        = 200 // Thành công
	StatusCreated   = 201 // Tạo mới thành công
	StatusAccepted  = 202 // Yêu cầu được chấp nhận
	StatusNoContent = 204 // Thành công nhưng không có nội dung trả về

	// Client Error Codes (4xx)
	StatusBadRequest       = 400 // Yêu cầu không hợp lệ
	StatusUnauthorized     = 401 // Chưa xác thực
	StatusForbidden        = 403 // Không có quyền truy cập
	StatusNotFound         = 404 // Không tìm thấy tài nguyên
	StatusMethodNotAllowed = 405 // Phương thức HTTP không được hỗ trợ
	StatusConflict         = 409 // Xung đột dữ liệu
	StatusTooManyRequests  = 429 // Quá nhiều yêu cầu

	// Server Error Codes (5xx)
	StatusInternalServerError = 500 // Lỗi server
	StatusNotImplemented      = 501 // Chức năng chưa được triển khai
	StatusServiceUnavailable  = 503 // Dịch vụ không khả dụng
	StatusGatewayTimeout      = 504 // Gateway timeout
)

// Response Messages
const (
	// Success Messages
	MsgSuccess = "Thao tác thành công"
	MsgCreated = "Tạo mới thành công"

	// Error Messages
	MsgBadRequest         = "Yêu cầu không hợp lệ"
	MsgUnauthorized       = "Vui lòng đăng nhập"
	MsgForbidden          = "Không có quyền truy cập"
	MsgNotFound           = "Không tìm thấy tài nguyên"
	MsgInternalError      = "Lỗi hệ thống"
	MsgServiceUnavailable = "Dịch vụ không khả dụng"

	// Token Messages
	MsgTokenMissing = "Thiếu token xác thực"
	MsgTokenInvalid = "Token không hợp lệ"
	MsgTokenExpired = "Token đã hết hạn"

	// Validation Messages
	MsgValidationError = "Dữ liệu không hợp lệ"
	MsgDatabaseError   = "Lỗi tương tác với cơ sở dữ liệu"
	MsgInvalidFormat   = "Định dạng dữ liệu không hợp lệ"
)

// ErrorCode định nghĩa mã lỗi chi tiết
type ErrorCode struct {
	Code        string // Mã lỗi (ví dụ: PIPE_001)
	Category    string // Phân loại lỗi (ví dụ: Pipeline)
	SubCategory string // Phân loại con (ví dụ: Generation)
	Description string // Mô tả chi tiết
}

// Định nghĩa các mã lỗi theo hệ thống phân cấp
var (
	// System Errors (SYS_xxx)
	ErrCodeInternalServer = ErrorCode{
		Code:        "SYS_001",
		Category:    "System",
		SubCategory: "Internal",
		Description: "Lỗi hệ thống nội bộ",
	}

	ErrCodeRateLimit = ErrorCode{
		Code:        "SYS_002",
		Category:    "System",
		SubCategory: "RateLimit",
		Description: "Vượt giới hạn số request cho phép",
	}

	// Authentication Errors (AUTH_xxx)
	ErrCodeAuthToken = ErrorCode{
		Code:        "AUTH_001",
		Category:    "Authentication",
		SubCategory: "Token",
		Description: "Lỗi liên quan đến token",
	}

	// Validation Errors (VAL_xxx)
	ErrCodeValidation = ErrorCode{
		Code:        "VAL",
		Category:    "Validation",
		SubCategory: "General",
		Description: "Lỗi xác thực dữ liệu chung",
	}

	ErrCodeValidationInput = ErrorCode{
		Code:        "VAL_001",
		Category:    "Validation",
		SubCategory: "Input",
		Description: "Lỗi dữ liệu đầu vào",
	}

	ErrCodeValidationFormat = ErrorCode{
		Code:        "VAL_002",
		Category:    "Validation",
		SubCategory: "Format",
		Description: "Lỗi định dạng dữ liệu",
	}

	// Database Errors (DB_xxx)
	ErrCodeDatabase = ErrorCode{
		Code:        "DB",
		Category:    "Database",
		SubCategory: "General",
		Description: "Lỗi cơ sở dữ liệu chung",
	}

	ErrCodeDatabaseConnection = ErrorCode{
		Code:        "DB_001",
		Category:    "Database",
		SubCategory: "Connection",
		Description: "Lỗi kết nối cơ sở dữ liệu",
	}

	ErrCodeDatabaseQuery = ErrorCode{
		Code:        "DB_002",
		Category:    "Database",
		SubCategory: "Query",
		Description: "Lỗi truy vấn dữ liệu",
	}

	// Pipeline Errors (PIPE_xxx) - lỗi của pipeline sinh infographic
	ErrCodePipeline = ErrorCode{
		Code:        "PIPE",
		Category:    "Pipeline",
		SubCategory: "General",
		Description: "Lỗi pipeline chung",
	}

	ErrCodePipelineGeneration = ErrorCode{
		Code:        "PIPE_001",
		Category:    "Pipeline",
		SubCategory: "Generation",
		Description: "Lỗi giai đoạn sinh tài liệu HTML",
	}

	ErrCodePipelineExtraction = ErrorCode{
		Code:        "PIPE_002",
		Category:    "Pipeline",
		SubCategory: "Extraction",
		Description: "Lỗi giai đoạn trích xuất SVG",
	}

	ErrCodePipelineIsolation = ErrorCode{
		Code:        "PIPE_003",
		Category:    "Pipeline",
		SubCategory: "Isolation",
		Description: "Lỗi môi trường thực thi cách ly",
	}

	ErrCodePipelineBatch = ErrorCode{
		Code:        "PIPE_004",
		Category:    "Pipeline",
		SubCategory: "Batch",
		Description: "Lỗi mức batch",
	}
)

// Error định nghĩa cấu trúc lỗi chi tiết
type Error struct {
	Code       ErrorCode // Mã lỗi chi tiết
	Message    string    // Thông báo lỗi
	StatusCode int       // HTTP status code
	Details    any       // Thông tin chi tiết thêm về lỗi
}

// Error trả về message của lỗi
func (e *Error) Error() string {
	return e.Message
}

// Is kiểm tra xem error có phải là target error không (hỗ trợ errors.Is)
func (e *Error) Is(target error) bool {
	if target == nil {
		return false
	}
	if targetErr, ok := target.(*Error); ok {
		return e.Code.Code == targetErr.Code.Code && e.Message == targetErr.Message
	}
	return target.Error() == e.Message
}

// NewError tạo một error mới với đầy đủ thông tin
func NewError(code ErrorCode, message string, statusCode int, details any) error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Custom errors
var (
	// Authentication Errors
	ErrTokenExpired = NewError(ErrCodeAuthToken, "Phiên đăng nhập đã hết hạn", StatusUnauthorized, nil)
	ErrTokenInvalid = NewError(ErrCodeAuthToken, "Token không hợp lệ", StatusUnauthorized, nil)
	ErrTokenMissing = NewError(ErrCodeAuthToken, "Thiếu token xác thực", StatusUnauthorized, nil)

	// Validation Errors
	ErrInvalidInput  = NewError(ErrCodeValidationInput, "Dữ liệu đầu vào không hợp lệ", StatusBadRequest, nil)
	ErrInvalidFormat = NewError(ErrCodeValidationFormat, "Định dạng dữ liệu không hợp lệ", StatusBadRequest, nil)
	ErrRequiredField = NewError(ErrCodeValidationInput, "Thiếu thông tin bắt buộc", StatusBadRequest, nil)
	ErrTopicEmpty    = NewError(ErrCodeValidationInput, "Chủ đề không được để trống", StatusBadRequest, nil)

	// Database Errors
	ErrNotFound   = NewError(ErrCodeDatabaseQuery, "Không tìm thấy dữ liệu", StatusNotFound, nil)
	ErrDuplicate  = NewError(ErrCodeDatabaseQuery, "Dữ liệu đã tồn tại", StatusConflict, nil)
	ErrConnection = NewError(ErrCodeDatabaseConnection, "Lỗi kết nối cơ sở dữ liệu", StatusServiceUnavailable, nil)

	// Pipeline Errors - lỗi mức batch, trả về cho caller qua HTTP
	// Lỗi mức slot (generation_failed, load_timeout, ...) nằm trong
	// pipeline.FailureReason, không phải error của hệ thống.
	ErrBatchNoDocuments  = NewError(ErrCodePipelineGeneration, "Không sinh được tài liệu HTML nào cho chủ đề", StatusInternalServerError, nil)
	ErrBatchNoArtifacts  = NewError(ErrCodePipelineExtraction, "Không trích xuất được SVG nào từ các biến thể", StatusInternalServerError, nil)
	ErrIsolationLaunch   = NewError(ErrCodePipelineIsolation, "Không khởi chạy được môi trường trích xuất cách ly", StatusInternalServerError, nil)
	ErrStrategyUnknown   = NewError(ErrCodePipelineIsolation, "Chiến lược cách ly không được đăng ký", StatusInternalServerError, nil)
	ErrBatchDirectory    = NewError(ErrCodePipelineBatch, "Không tạo được thư mục batch", StatusInternalServerError, nil)
	ErrGenerationService = NewError(ErrCodePipelineGeneration, "Dịch vụ sinh nội dung không khả dụng", StatusServiceUnavailable, nil)
)

// ConvertMongoError chuyển đổi lỗi MongoDB sang lỗi hệ thống
func ConvertMongoError(err error) error {
	if err == nil {
		return nil
	}

	// ErrNotFound giữ nguyên, không convert
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if err.Error() == ErrNotFound.Error() {
		return ErrNotFound
	}

	var mongoErr mongo.CommandError
	if errors.As(err, &mongoErr) {
		switch {
		case mongoErr.Code >= 100 && mongoErr.Code < 200:
			return NewError(ErrCodeDatabaseConnection, "Lỗi kết nối MongoDB", StatusServiceUnavailable, err)
		case mongoErr.Code >= 200 && mongoErr.Code < 300:
			return NewError(ErrCodeDatabaseConnection, "Lỗi xác thực MongoDB", StatusUnauthorized, err)
		case mongoErr.Code >= 300 && mongoErr.Code < 500:
			return NewError(ErrCodeDatabaseQuery, "Lỗi truy vấn MongoDB", StatusInternalServerError, err)
		case mongoErr.Code >= 500:
			return NewError(ErrCodeDatabase, "Lỗi hệ thống MongoDB", StatusInternalServerError, err)
		}
	}

	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return ErrConnection
	}

	return NewError(ErrCodeDatabase, MsgDatabaseError, StatusInternalServerError, err)
}
