package infographichdl

import (
	"fmt"
	infographicdto "meta_infographic/internal/api/infographic/dto"
	"meta_infographic/internal/common"
	"meta_infographic/internal/logger"

	"github.com/gofiber/fiber/v3"
)

// Generate sinh các biến thể infographic cho một chủ đề.
// Request chạy đồng bộ: response chỉ trả về khi toàn bộ pipeline đã xong,
// kèm payload SVG base64 của từng biến thể thành công.
func (h *InfographicBatchHandler) Generate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input infographicdto.InfographicGenerateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("Dữ liệu gửi lên không đúng định dạng JSON hoặc không khớp với cấu trúc yêu cầu. Chi tiết: %v", err),
				common.StatusBadRequest,
				err,
			))
			return nil
		}

		data, err := h.InfographicGenerateService.Generate(c.Context(), &input)
		if err == nil && data != nil {
			logger.LogBatch("generate", data.BatchID, c, map[string]interface{}{
				"topic":    input.Prompt,
				"variants": len(data.Variants),
				"success":  data.Success,
			})
		}
		h.HandleResponse(c, data, err)
		return nil
	})
}
