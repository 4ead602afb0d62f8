// Sinh JWT để gọi các route ghi khi server bật xác thực (JWT_SECRET khác rỗng).
// Token in ra stdout, dùng trong header: Authorization: Bearer <token>
//
// Chạy: go run ./scripts/gen_token
// Hoặc chỉ định user id: go run ./scripts/gen_token <userId>
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"meta_infographic/internal/utility"
)

func loadEnv() {
	tryPaths := []string{".env", "config/env/development.env"}
	cwd, _ := os.Getwd()
	for _, p := range tryPaths {
		full := filepath.Join(cwd, p)
		if _, err := os.Stat(full); err == nil {
			_ = godotenv.Load(full)
			break
		}
		parent := filepath.Dir(cwd)
		if _, err := os.Stat(filepath.Join(parent, p)); err == nil {
			_ = godotenv.Load(filepath.Join(parent, p))
			break
		}
	}
}

func main() {
	loadEnv()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET rỗng: server đang chạy không xác thực, không cần token")
	}

	userID := "dev"
	if len(os.Args) > 1 && os.Args[1] != "" {
		userID = os.Args[1]
	}

	tokenMap, err := utility.CreateToken(secret, userID, strconv.FormatInt(time.Now().Unix(), 16), strconv.Itoa(rand.Intn(100000)))
	if err != nil {
		log.Fatalf("Sinh token lỗi: %v", err)
	}

	fmt.Println(tokenMap["token"])
}
