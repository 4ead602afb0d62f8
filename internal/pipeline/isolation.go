package pipeline

import (
	"context"
	"fmt"
	"strings"

	"meta_infographic/internal/common"
	"meta_infographic/internal/registry"
)

// Tên các chiến lược cách ly có sẵn
const (
	StrategySubprocess = "subprocess"
	StrategyInProcess  = "inprocess"
)

// IsolationStrategy quyết định môi trường chạy headless browser cho một lần
// trích xuất: process extractor riêng (mặc định, cách ly crash của browser)
// hay ngay trong process hiện tại.
//
// Extract luôn trả về report, kể cả khi môi trường cách ly hỏng; lý do và
// message trong report đi thẳng vào kết quả của slot.
type IsolationStrategy interface {
	// Name trả về tên đăng ký của chiến lược
	Name() string

	// Extract chạy trọn một lần trích xuất cho một biến thể
	Extract(ctx context.Context, req ExtractionRequest) *ExtractionReport
}

// strategies giữ các chiến lược đã đăng ký, tra cứu theo tên
var strategies = registry.NewRegistry[IsolationStrategy]()

// RegisterStrategy đăng ký một chiến lược để StrategyByName tra cứu được.
// Đăng ký trùng tên sẽ ghi đè chiến lược cũ.
func RegisterStrategy(s IsolationStrategy) error {
	_, err := strategies.Register(s.Name(), s)
	return err
}

// StrategyByName tra cứu chiến lược theo tên cấu hình (không phân biệt hoa thường)
func StrategyByName(name string) (IsolationStrategy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	s, exists := strategies.Get(key)
	if !exists {
		return nil, common.NewError(
			common.ErrCodePipelineIsolation,
			fmt.Sprintf("Chiến lược cách ly %q chưa được đăng ký, các lựa chọn hợp lệ: %v", name, strategies.Names()),
			common.StatusInternalServerError,
			nil,
		)
	}
	return s, nil
}
