// Package router đăng ký các route thuộc domain Infographic: lịch sử batch và endpoint sinh infographic.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	infographichdl "meta_infographic/internal/api/infographic/handler"
	"meta_infographic/internal/api/middleware"
	apirouter "meta_infographic/internal/api/router"
)

// Register đăng ký tất cả route Infographic lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	infographicBatchHandler, err := infographichdl.NewInfographicBatchHandler()
	if err != nil {
		return fmt.Errorf("create infographic batch handler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/infographics", infographicBatchHandler, apirouter.ReadWriteConfig)

	// Endpoint sinh infographic: chạy pipeline Gemini + trích xuất SVG, trả kết quả đồng bộ.
	generateMiddleware := middleware.AuthMiddleware()
	apirouter.RegisterRouteWithMiddleware(v1, "/infographics", "POST", "/generate", []fiber.Handler{generateMiddleware}, infographicBatchHandler.Generate)

	return nil
}
