package utility

import (
	"meta_infographic/internal/logger"
)

// GoProtect là một hàm bao bọc (wrapper) giúp bảo vệ một hàm khác khỏi bị panic.
// Nếu xảy ra panic trong hàm f(), GoProtect sẽ bắt lại và ghi log lỗi thay vì làm chương trình dừng hẳn.
// Dùng cho các goroutine chạy biến thể trong pipeline: một biến thể panic không được kéo sập cả batch.
func GoProtect(f func()) {
	defer func() {
		// Sử dụng recover() để bắt lỗi panic nếu có
		if err := recover(); err != nil {
			logger.GetErrorLogger().WithField("panic", err).Error("Đã bắt lỗi panic trong goroutine được bảo vệ")
		}
	}()

	// Gọi hàm f() được truyền vào
	f()
}
