package generation

import "strings"

// StripCodeFence gỡ code fence markdown mà model thỉnh thoảng bọc quanh output.
// lang là ngôn ngữ của fence mở ("html", "json", ...), fence trần "```" cũng được gỡ.
// Chỉ gỡ đúng một fence mở ở đầu và một fence đóng ở cuối, phần thân giữ nguyên.
func StripCodeFence(s, lang string) string {
	s = strings.TrimSpace(s)

	if lang != "" && strings.HasPrefix(s, "```"+lang) {
		s = s[len("```"+lang):]
	}
	if strings.HasPrefix(s, "```") {
		s = s[3:]
	}
	if strings.HasSuffix(s, "```") {
		s = s[:len(s)-3]
	}

	return strings.TrimSpace(s)
}
