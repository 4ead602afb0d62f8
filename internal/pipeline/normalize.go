package pipeline

import "strings"

// Phần đầu bắt buộc của một file SVG standalone
const (
	xmlDeclaration = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"
	svgNamespace   = `xmlns="http://www.w3.org/2000/svg"`
)

// Normalize đảm bảo nội dung SVG mở được như một file độc lập: đúng một
// khai báo XML ở đầu và đúng một xmlns trên thẻ svg ngoài cùng. Nguồn thiếu
// được gắn thêm, nguồn bị lặp (ví dụ đã normalize trước đó) được gộp về một.
// Hàm idempotent, gọi lặp trên output của chính nó không đổi kết quả.
//
// Serializer phía browser đã setAttribute xmlns khi clone nên nhánh gắn
// xmlns thường là no-op; giữ lại để nội dung đến từ nguồn khác vẫn hợp lệ.
func Normalize(svg string) string {
	if svg == "" {
		return svg
	}

	svg = stripDeclarations(svg)
	svg = ensureNamespace(svg)
	return xmlDeclaration + svg
}

// stripDeclarations bỏ mọi khai báo XML ở đầu nội dung, kể cả khi bị lặp.
// Caller gắn lại đúng một khai báo sau đó.
func stripDeclarations(svg string) string {
	for {
		trimmed := strings.TrimLeft(svg, " \t\r\n")
		if !strings.HasPrefix(trimmed, "<?xml") {
			return trimmed
		}
		end := strings.Index(trimmed, "?>")
		if end < 0 {
			return trimmed
		}
		svg = trimmed[end+2:]
	}
}

// ensureNamespace đưa thẻ svg ngoài cùng về đúng một attribute xmlns.
// Thẻ svg lồng bên trong giữ nguyên.
func ensureNamespace(svg string) string {
	start := strings.Index(svg, "<svg")
	if start < 0 {
		return svg
	}
	end := strings.Index(svg[start:], ">")
	if end < 0 {
		return svg
	}

	tag := svg[start : start+end+1]
	if strings.Count(tag, svgNamespace) == 1 {
		return svg
	}

	// Bỏ mọi xmlns trong thẻ rồi gắn lại đúng một lần ngay sau tên thẻ
	tag = strings.ReplaceAll(tag, " "+svgNamespace, "")
	tag = strings.ReplaceAll(tag, svgNamespace, "")
	tag = strings.Replace(tag, "<svg", "<svg "+svgNamespace, 1)

	return svg[:start] + tag + svg[start+end+1:]
}
