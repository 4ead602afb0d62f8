// Package utility - Test tạo và xác thực JWT token.
package utility

import (
	"strings"
	"testing"
)

func TestCreateToken_VaParseToken(t *testing.T) {
	secret := "day-la-secret-test"

	tokenMap, err := CreateToken(secret, "user-123", "1a2b3c", "42")
	if err != nil {
		t.Fatalf("CreateToken trả về lỗi: %v", err)
	}

	tokenStr, ok := tokenMap["token"]
	if !ok || tokenStr == "" {
		t.Fatal("CreateToken phải trả về map có key token khác rỗng")
	}
	if strings.Count(tokenStr, ".") != 2 {
		t.Errorf("JWT phải có 3 phần phân cách bằng dấu chấm: %s", tokenStr)
	}

	claims, err := ParseToken(secret, tokenStr)
	if err != nil {
		t.Fatalf("ParseToken trả về lỗi với token hợp lệ: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Errorf("UserID sai: muốn user-123, có %s", claims.UserID)
	}
	if claims.Time != "1a2b3c" {
		t.Errorf("Time sai: muốn 1a2b3c, có %s", claims.Time)
	}
	if claims.RandomNumber != "42" {
		t.Errorf("RandomNumber sai: muốn 42, có %s", claims.RandomNumber)
	}
}

func TestParseToken_SaiSecret(t *testing.T) {
	tokenMap, err := CreateToken("secret-dung", "user-123", "1a2b3c", "42")
	if err != nil {
		t.Fatalf("CreateToken trả về lỗi: %v", err)
	}

	if _, err := ParseToken("secret-sai", tokenMap["token"]); err == nil {
		t.Error("token ký bằng secret khác phải bị từ chối")
	}
}

func TestParseToken_TokenHong(t *testing.T) {
	if _, err := ParseToken("secret", "khong-phai-jwt"); err == nil {
		t.Error("chuỗi không phải JWT phải bị từ chối")
	}
	if _, err := ParseToken("secret", ""); err == nil {
		t.Error("chuỗi rỗng phải bị từ chối")
	}
}
