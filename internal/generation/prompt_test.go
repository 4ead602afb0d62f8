package generation

import (
	"strings"
	"testing"
)

// TestElementsUserPrompt kiểm tra user prompt cho bước liệt kê elements
func TestElementsUserPrompt(t *testing.T) {
	prompt := elementsUserPrompt("Solar Energy", 2, 5)

	if !strings.HasPrefix(prompt, "Topic: Solar Energy\n") {
		t.Errorf("prompt phải bắt đầu bằng dòng Topic, got: %q", prompt[:40])
	}
	if !strings.Contains(prompt, "Variant 2 of 5") {
		t.Errorf("prompt phải chứa số thứ tự variant, got: %q", prompt)
	}
	if !strings.Contains(prompt, "JSON list of element descriptions") {
		t.Errorf("prompt phải yêu cầu JSON list, got: %q", prompt)
	}
}

// TestDocumentUserPrompt kiểm tra user prompt cho bước sinh HTML
func TestDocumentUserPrompt(t *testing.T) {
	prompt := documentUserPrompt("Coffee Brewing", `["svg","rect"]`, "minimalist", 1, 3)

	for _, want := range []string{
		"Topic: Coffee Brewing\n",
		"Elements: [\"svg\",\"rect\"]\n",
		"Style: minimalist\n",
		"This is variant 1 of 3",
		"Generate complete D3.js infographic code for variant 1.",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt thiếu %q", want)
		}
	}
}

// TestDocumentUserPromptDefaultStyle kiểm tra style mặc định khi client không gửi style
func TestDocumentUserPromptDefaultStyle(t *testing.T) {
	prompt := documentUserPrompt("Coffee Brewing", "basic elements", "", 1, 3)

	if !strings.Contains(prompt, "Style: unique and creative design\n") {
		t.Errorf("style rỗng phải thay bằng mặc định, got: %q", prompt)
	}
}

// TestSystemPromptsForbidMarkdown kiểm tra các system prompt đều cấm markdown trong output
func TestSystemPromptsForbidMarkdown(t *testing.T) {
	if !strings.Contains(elementsSystemPrompt, "no markdown") {
		t.Error("elements system prompt phải cấm markdown")
	}
	if !strings.Contains(documentSystemPrompt, "NO markdown") {
		t.Error("document system prompt phải cấm markdown")
	}
	if !strings.Contains(documentSystemPrompt, "headless browser extraction") {
		t.Error("document system prompt phải nhắm tới headless extraction")
	}
	if !strings.Contains(headlessFixSystemPrompt, "backslashes") {
		t.Error("headless fix prompt phải xử lý backslash trong closing tags")
	}
	if !strings.Contains(finalValidateSystemPrompt, "<!DOCTYPE html>") {
		t.Error("final validate prompt phải yêu cầu DOCTYPE")
	}
}
