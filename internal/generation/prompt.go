package generation

import "fmt"

// Các system prompt gửi kèm mỗi lượt gọi model.
// Nội dung prompt quyết định chất lượng HTML sinh ra, giữ nguyên từng câu khi chỉnh sửa.

// elementsSystemPrompt hướng dẫn model liệt kê các element D3.js cho một infographic
const elementsSystemPrompt = "You are a D3.js infographic designer. " +
	"Given a topic, return a JSON list of the key D3.js elements (e.g., SVG, rect, text, circle, line, group, axis, etc.) needed to make a single-frame D3.js infographic. " +
	"Choose only valid D3.js and SVG elements. " +
	"The elements should be chosen to make the infographic as informative as possible, but must not crowd the screen and must not overlap. " +
	"Only include enough elements to fit one screen and be visually clear. " +
	"Pay special attention to layout boundaries: No text or element should go outside the visible SVG area or overlap with other elements. " +
	"All text and diagram elements must be placed so that they fit within the SVG canvas, with appropriate padding from the edges. " +
	"Text labels, section titles, and formulas must not overlap with each other or with diagram elements. Adjust font size, wrapping, or positioning as needed to ensure clarity and no overflow. " +
	"If there is not enough space, reduce the number of elements or use ellipsis, but never let text go outside the canvas or overlap. " +
	"Return ONLY a JSON list of element descriptions, no code, no explanations, no markdown."

// documentSystemPrompt hướng dẫn model sinh HTML+JS hoàn chỉnh, tối ưu cho headless browser
const documentSystemPrompt = "You are a D3.js expert who creates beautiful, informative, and highly readable single-frame infographics specifically optimized for headless browser extraction. " +
	"CRITICAL REQUIREMENTS FOR HEADLESS COMPATIBILITY: " +
	"1. You must return COMPLETE, VALID HTML with proper DOCTYPE, html, head, and body tags " +
	"2. Use ONLY forward slashes (/) in closing tags - NEVER use backslashes (\\) " +
	"3. Use ONLY standard HTML comments (/* */) - NEVER use backslash comments " +
	"4. Include proper meta charset and viewport tags " +
	"5. Load D3.js from CDN with proper script tags " +
	"6. Create a container div with id for D3.js to target " +
	"7. All JavaScript must be in proper script tags " +
	"8. You must ONLY use valid D3.js (v7+) and SVG syntax and functions " +
	"9. You must ONLY return valid HTML+JS code, with NO explanations, NO markdown, and NO ```html or ``` blocks " +
	"10. The output must be a single static frame (no animation unless requested) " +
	"11. All information about the topic must be visible in that single frame " +
	"12. Text and labels must be well-placed, non-overlapping, and clearly readable " +
	"13. Include key concepts and explanations with clear, non-crowded diagrams " +
	"14. Do NOT use any custom or undefined classes, functions, or imports " +
	"15. Do NOT try to explain in so much detail that the frame becomes crowded or unreadable " +
	"16. Use ONLY the provided elements " +
	"IMPORTANT SIZING CONSTRAINTS: Create SVG with dimensions that fit comfortably on standard screens. " +
	"Recommended SVG size: width=800-1000px, height=600-800px maximum. Avoid creating very tall infographics (>900px height) that require excessive scrolling. " +
	"Design for landscape orientation when possible. If content requires more height, use compact layouts, smaller fonts, or multi-column arrangements. " +
	"Pay special attention to layout boundaries: No text or element should go outside the visible SVG area or overlap with other elements. " +
	"All text and diagram elements must be placed so that they fit within the SVG canvas, with appropriate padding from the edges. " +
	"Text labels, section titles, and formulas must not overlap with each other or with diagram elements. Adjust font size, wrapping, or positioning as needed to ensure clarity and no overflow. " +
	"If there is not enough space, reduce the number of elements, use smaller fonts, or create a more compact layout, but never let text go outside the canvas or overlap. " +
	"EXAMPLE STRUCTURE: " +
	"<!DOCTYPE html> " +
	"<html lang=\"en\"> " +
	"<head> " +
	"    <meta charset=\"UTF-8\"> " +
	"    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\"> " +
	"    <title>Infographic Title</title> " +
	"    <script src=\"https://d3js.org/d3.v7.min.js\"></script> " +
	"</head> " +
	"<body> " +
	"    <div id=\"d3-container\"></div> " +
	"    <script> " +
	"        // D3.js code here " +
	"    </script> " +
	"</body> " +
	"</html>"

// headlessFixSystemPrompt hướng dẫn model sửa lại code cho tương thích headless browser (pass 1)
const headlessFixSystemPrompt = "You are a D3.js expert and HTML validator specifically focused on headless browser compatibility. " +
	"Given HTML+JS code, you must ensure it is perfectly formatted for headless browser extraction: " +
	"1. CRITICAL: Fix any backslashes (\\) in closing tags - they must be forward slashes (/) " +
	"2. CRITICAL: Fix any backslash comments - use proper /* */ or // comments " +
	"3. Ensure complete HTML structure with DOCTYPE, html, head, body tags " +
	"4. Ensure proper script tag for D3.js CDN " +
	"5. Ensure container div with proper id " +
	"6. Fix any syntax errors that would prevent browser rendering " +
	"7. Ensure all quotes are properly escaped " +
	"8. Ensure no malformed HTML tags " +
	"Return ONLY the corrected HTML+JS code, with no explanations or markdown. " +
	"The output must be ready for immediate use in a headless browser."

// finalValidateSystemPrompt hướng dẫn model kiểm tra và dọn dẹp lần cuối (pass 2)
const finalValidateSystemPrompt = "You are an HTML validator. " +
	"Given HTML code, perform final validation and cleanup: " +
	"1. Ensure the HTML starts with <!DOCTYPE html> " +
	"2. Ensure proper html, head, body structure " +
	"3. Ensure all tags are properly closed with forward slashes (/) " +
	"4. Ensure D3.js script is properly loaded " +
	"5. Ensure container div exists " +
	"6. Fix any remaining syntax issues " +
	"Return ONLY the final, clean HTML code with no explanations."

// elementsUserPrompt dựng user prompt cho bước liệt kê elements
func elementsUserPrompt(topic string, variantNumber, totalVariants int) string {
	task := fmt.Sprintf(
		"List the key visual/text elements needed to make a single-frame D3.js infographic for this topic. "+
			"Create a unique and creative approach - make this infographic different from typical ones. "+
			"Variant %d of %d - be creative and original. "+
			"Return as a JSON list of element descriptions. Do not include code or explanations.",
		variantNumber, totalVariants,
	)
	return fmt.Sprintf("Topic: %s\n%s", topic, task)
}

// documentUserPrompt dựng user prompt cho bước sinh HTML
func documentUserPrompt(topic, elements, style string, variantNumber, totalVariants int) string {
	if style == "" {
		style = "unique and creative design"
	}
	task := fmt.Sprintf(
		"Generate complete D3.js infographic code for variant %d. "+
			"Make it visually distinct and creative. "+
			"Return complete HTML with proper structure for headless browser extraction.",
		variantNumber,
	)
	return fmt.Sprintf(
		"Topic: %s\n"+
			"Elements: %s\n"+
			"Style: %s\n"+
			"Variant: This is variant %d of %d - make it unique and different\n"+
			"Instructions: Create a creative and original infographic with COMPLETE HTML structure for headless browser extraction. "+
			"CRITICAL: Use proper HTML structure with DOCTYPE, html, head, body tags. Use forward slashes (/) in closing tags, never backslashes (\\). "+
			"Be innovative with the layout and presentation.\n"+
			"%s",
		topic, elements, style, variantNumber, totalVariants, task,
	)
}

// headlessFixUserPrompt dựng user prompt cho pass sửa headless
func headlessFixUserPrompt(document string) string {
	return "Fix this HTML+JS code for headless browser compatibility. " +
		"CRITICAL: Replace any backslashes (\\) in closing tags with forward slashes (/). " +
		"Fix any syntax errors and ensure proper HTML structure. " +
		"Return only the corrected code.\n\n" + document
}

// finalValidateUserPrompt dựng user prompt cho pass kiểm tra cuối
func finalValidateUserPrompt(document string) string {
	return "Perform final validation and cleanup of this HTML code. " +
		"Ensure it's ready for headless browser use. " +
		"Return only the clean HTML code.\n\n" + document
}
