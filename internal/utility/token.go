package utility

import (
	"fmt"

	"github.com/dgrijalva/jwt-go"
)

// JwtToken chứa data được mã hóa trong JWT token.
type JwtToken struct {
	UserID       string `json:"userId"`
	Time         string `json:"time"`
	RandomNumber string `json:"randomNumber"`
	jwt.StandardClaims
}

// CreateToken tạo JWT token (HS256) từ secret và thông tin định danh.
// Trả về map có key "token" chứa token string đã ký.
func CreateToken(secret string, userID string, timeStr string, randomNumber string) (map[string]string, error) {
	claims := &JwtToken{
		UserID:       userID,
		Time:         timeStr,
		RandomNumber: randomNumber,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("lỗi ký token: %v", err)
	}

	return map[string]string{"token": tokenStr}, nil
}

// ParseToken xác thực chữ ký HS256 và decode claims từ token string.
// Chỉ chấp nhận token ký bằng HMAC để tránh tấn công đổi thuật toán (alg=none).
func ParseToken(secret string, tokenStr string) (*JwtToken, error) {
	claims := &JwtToken{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("phương thức ký không hợp lệ: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token không hợp lệ")
	}

	return claims, nil
}
