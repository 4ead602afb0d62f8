// Package render điều khiển headless browser để render tài liệu HTML
// và trích xuất SVG đã vẽ xong từ DOM.
package render

import "context"

// OutputInfo mô tả SVG tìm thấy trong DOM sau khi render
type OutputInfo struct {
	Found        bool    `json:"found"`        // Có tìm thấy phần tử svg hay không
	Children     int     `json:"children"`     // Số phần tử con trực tiếp của svg
	TextElements int     `json:"textElements"` // Số phần tử text bên trong svg
	Width        float64 `json:"width"`        // Chiều rộng render thực tế (px)
	Height       float64 `json:"height"`       // Chiều cao render thực tế (px)
}

// Session là một phiên browser headless gắn với một tài liệu cần render.
// Mỗi session mở đúng một tab, dùng xong phải gọi Close để giải phóng browser.
//
// Thứ tự gọi chuẩn: Load -> RuntimeAvailable -> Inspect (poll tới khi svg xuất hiện) -> Serialize.
// Timeout của từng bước do caller kiểm soát qua context deadline.
type Session interface {
	// Load điều hướng tab tới URL của tài liệu (thường là file://...)
	Load(ctx context.Context, url string) error

	// RuntimeAvailable kiểm tra runtime vẽ (d3) đã load trong trang chưa
	RuntimeAvailable(ctx context.Context) (bool, error)

	// Inspect đọc thông tin SVG hiện có trong DOM.
	// Caller poll hàm này để đợi svg xuất hiện rồi validate nội dung.
	Inspect(ctx context.Context) (*OutputInfo, error)

	// Serialize clone SVG, gắn xmlns, bỏ các thẻ style và trả về outerHTML.
	// Trả về chuỗi rỗng nếu DOM không còn svg.
	Serialize(ctx context.Context) (string, error)

	// Close đóng tab và browser của session
	Close() error
}
