package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	"meta_infographic/internal/common"
	"meta_infographic/internal/global"
	"meta_infographic/internal/logger"
	"meta_infographic/internal/utility"
)

// AuthMiddleware middleware xác thực JWT cho Fiber.
// Token được ký HS256 với JwtSecret trong config. Nếu JwtSecret để trống,
// xác thực bị tắt và mọi request đều đi qua (chế độ mặc định cho môi trường dev).
func AuthMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		secret := ""
		if global.MongoDB_ServerConfig != nil {
			secret = global.MongoDB_ServerConfig.JwtSecret
		}

		// Không cấu hình secret thì bỏ qua xác thực
		if secret == "" {
			return c.Next()
		}

		// Lấy token từ header
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			// Chỉ log khi thiếu token (lỗi quan trọng)
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":   c.Path(),
				"method": c.Method(),
			}).Warn("❌ [AUTH] Missing Authorization header")
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}

		// Kiểm tra định dạng token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Xác thực chữ ký và decode claims
		claims, err := utility.ParseToken(secret, parts[1])
		if err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"path":  c.Path(),
				"error": err.Error(),
			}).Warn("❌ [AUTH] Invalid token signature")
			logger.LogAuth("token_invalid", c, map[string]interface{}{"path": c.Path()})
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		// Lưu thông tin user vào context
		c.Locals("user_id", claims.UserID)
		return c.Next()
	}
}
