package infographicdto

// InfographicGenerateInput dữ liệu đầu vào khi yêu cầu sinh infographic.
// Giữ nguyên tên field prompt/style_preference của API contract cũ.
type InfographicGenerateInput struct {
	Prompt          string `json:"prompt" validate:"required"`
	StylePreference string `json:"style_preference,omitempty"`
	VariantCount    int    `json:"variantCount,omitempty" validate:"omitempty,min=1,max=5"`
}

// InfographicVariantOutput kết quả một biến thể trả về cho client.
// Slot đánh số 1-based, khớp thư mục variant_<n> trên đĩa.
type InfographicVariantOutput struct {
	Slot         int    `json:"slot"`
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ByteSize     int64  `json:"byteSize"`
	ArtifactPath string `json:"artifactPath,omitempty"`
	SvgBase64    string `json:"svgBase64,omitempty"`
}

// InfographicGenerateOutput kết quả của một lần sinh infographic
type InfographicGenerateOutput struct {
	Success        bool                       `json:"success"`
	Message        string                     `json:"message"`
	BatchID        string                     `json:"batchId,omitempty"`
	Variants       []InfographicVariantOutput `json:"variants"`
	ElapsedSeconds float64                    `json:"elapsedSeconds"`
	OutputDir      string                     `json:"outputDir"`
}

// InfographicBatchCreateInput dữ liệu đầu vào khi tạo batch record qua CRUD
type InfographicBatchCreateInput struct {
	Topic       string `json:"topic" validate:"required"`
	Style       string `json:"style,omitempty"`
	TargetCount int    `json:"targetCount,omitempty" validate:"omitempty,min=1"`
}

// InfographicBatchUpdateInput dữ liệu đầu vào khi cập nhật batch record qua CRUD
type InfographicBatchUpdateInput struct {
	Status string `json:"status,omitempty" validate:"omitempty,oneof=pending generating completed failed"`
	Error  string `json:"error,omitempty"`
}
