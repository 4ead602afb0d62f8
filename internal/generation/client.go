// Package generation gọi Gemini để sinh tài liệu HTML+D3.js cho từng variant.
// Mỗi variant đi qua 3 lượt model: sinh code, sửa tương thích headless, kiểm tra cuối.
package generation

import (
	"context"
	"fmt"
	"strings"

	"meta_infographic/internal/common"
	"meta_infographic/internal/logger"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ListElementsRequest là yêu cầu liệt kê các element cho một variant
type ListElementsRequest struct {
	Topic         string // Chủ đề của infographic
	VariantNumber int    // Số thứ tự variant (1-based, dùng trong prompt)
	TotalVariants int    // Tổng số variant của batch
}

// GenerateDocumentRequest là yêu cầu sinh tài liệu HTML cho một variant
type GenerateDocumentRequest struct {
	Topic         string // Chủ đề của infographic
	Elements      string // Danh sách elements (output của ListElements, hoặc "basic elements")
	Style         string // Gợi ý style từ client, rỗng thì dùng mặc định
	VariantNumber int    // Số thứ tự variant (1-based, dùng trong prompt)
	TotalVariants int    // Tổng số variant của batch
}

// Client bao bọc genai client với model đã cấu hình
type Client struct {
	client *genai.Client
	model  string
}

// NewClient tạo generation client kết nối tới Gemini
//
// Parameters:
//   - ctx: Context cho việc khởi tạo connection
//   - apiKey: API key của Gemini (bắt buộc)
//   - model: Tên model (ví dụ "gemini-2.5-flash")
//
// Returns:
//   - *Client: Client đã sẵn sàng
//   - error: Lỗi nếu thiếu API key hoặc không khởi tạo được
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty: %w", common.ErrGenerationService)
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// Close giải phóng connection tới Gemini
func (c *Client) Close() error {
	return c.client.Close()
}

// ListElements gọi model liệt kê các element D3.js cho một variant.
// Trả về chuỗi JSON list (đã gỡ code fence). Lỗi ở bước này không chặn batch,
// caller sẽ thay bằng mô tả mặc định.
func (c *Client) ListElements(ctx context.Context, req ListElementsRequest) (string, error) {
	logger.GetAppLogger().WithFields(map[string]interface{}{
		"module":  "generation",
		"topic":   req.Topic,
		"variant": req.VariantNumber,
	}).Debug("🤖 [GENERATION] Liệt kê elements cho variant")

	raw, err := c.generate(ctx, elementsSystemPrompt, elementsUserPrompt(req.Topic, req.VariantNumber, req.TotalVariants))
	if err != nil {
		return "", fmt.Errorf("list elements failed for variant %d: %w", req.VariantNumber, err)
	}

	elements := StripCodeFence(raw, "json")
	if elements == "" {
		return "", fmt.Errorf("list elements returned empty response for variant %d: %w", req.VariantNumber, common.ErrGenerationService)
	}
	return elements, nil
}

// GenerateDocument sinh tài liệu HTML+D3.js hoàn chỉnh cho một variant.
// Chuỗi 3 lượt model: sinh code, sửa tương thích headless, kiểm tra cuối.
// Output mỗi lượt đều được gỡ code fence trước khi đưa vào lượt sau.
func (c *Client) GenerateDocument(ctx context.Context, req GenerateDocumentRequest) (string, error) {
	log := logger.GetAppLogger().WithFields(map[string]interface{}{
		"module":  "generation",
		"topic":   req.Topic,
		"variant": req.VariantNumber,
	})
	log.Info("🤖 [GENERATION] Sinh tài liệu HTML cho variant")

	// Lượt 1: sinh code từ topic + elements
	raw, err := c.generate(ctx, documentSystemPrompt, documentUserPrompt(req.Topic, req.Elements, req.Style, req.VariantNumber, req.TotalVariants))
	if err != nil {
		return "", fmt.Errorf("generate document failed for variant %d: %w", req.VariantNumber, err)
	}
	document := StripCodeFence(raw, "html")
	if document == "" {
		return "", fmt.Errorf("generate document returned empty response for variant %d: %w", req.VariantNumber, common.ErrGenerationService)
	}

	// Lượt 2: sửa tương thích headless (backslash trong closing tags, cấu trúc HTML)
	raw, err = c.generate(ctx, headlessFixSystemPrompt, headlessFixUserPrompt(document))
	if err != nil {
		return "", fmt.Errorf("headless fix pass failed for variant %d: %w", req.VariantNumber, err)
	}
	if fixed := StripCodeFence(raw, "html"); fixed != "" {
		document = fixed
	}

	// Lượt 3: kiểm tra và dọn dẹp lần cuối
	raw, err = c.generate(ctx, finalValidateSystemPrompt, finalValidateUserPrompt(document))
	if err != nil {
		return "", fmt.Errorf("final validation pass failed for variant %d: %w", req.VariantNumber, err)
	}
	if final := StripCodeFence(raw, "html"); final != "" {
		document = final
	}

	log.WithField("bytes", len(document)).Info("🤖 [GENERATION] Đã sinh xong tài liệu HTML")
	return document, nil
}

// generate gọi một lượt model với system instruction và user prompt
func (c *Client) generate(ctx context.Context, systemInstruction, userPrompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned no text content: %w", common.ErrGenerationService)
	}
	return text, nil
}

// responseText ghép toàn bộ text parts từ candidate đầu tiên
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String()
}
