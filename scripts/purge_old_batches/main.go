// Xóa thủ công các batch quá hạn: bản ghi lịch sử trong MongoDB và thư mục
// batch trên đĩa. Cùng logic với retention worker, dùng khi cần dọn ngay
// hoặc khi worker đang tắt (BATCH_RETENTION_DAYS=0).
//
// Chạy: go run ./scripts/purge_old_batches
// Hoặc chỉ định số ngày giữ: go run ./scripts/purge_old_batches <days>
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
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
	uri := os.Getenv("MONGODB_CONNECTION_URI")
	dbName := os.Getenv("MONGODB_DBNAME")
	if uri == "" || dbName == "" {
		log.Fatal("Cần MONGODB_CONNECTION_URI và MONGODB_DBNAME")
	}

	days := 7
	if len(os.Args) > 1 && os.Args[1] != "" {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil || n <= 0 {
			log.Fatalf("Số ngày không hợp lệ: %s", os.Args[1])
		}
		days = n
	}

	outputRoot := os.Getenv("PIPELINE_OUTPUT_ROOT")
	if outputRoot == "" {
		outputRoot = "generated"
	}
	batchPrefix := os.Getenv("PIPELINE_BATCH_PREFIX")
	if batchPrefix == "" {
		batchPrefix = "api_batch"
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	log.Printf("Xóa batch cũ hơn %d ngày (trước %s)\n", days, cutoff.Format("2006-01-02 15:04:05"))

	// 1. Xóa thư mục batch trên đĩa
	removedDirs := 0
	entries, err := os.ReadDir(outputRoot)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Thư mục output %s không tồn tại, bỏ qua phần xóa trên đĩa\n", outputRoot)
		} else {
			log.Fatalf("Đọc thư mục output lỗi: %v", err)
		}
	}
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), batchPrefix+"_") {
			continue
		}
		parts := strings.SplitN(strings.TrimPrefix(entry.Name(), batchPrefix+"_"), "_", 2)
		if len(parts) < 2 {
			continue
		}
		ts, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil || ts <= 0 {
			continue
		}
		if !time.Unix(ts, 0).Before(cutoff) {
			continue
		}
		dirPath := filepath.Join(outputRoot, entry.Name())
		if err := os.RemoveAll(dirPath); err != nil {
			log.Printf("Không xóa được %s: %v\n", dirPath, err)
			continue
		}
		fmt.Printf("Đã xóa thư mục: %s\n", dirPath)
		removedDirs++
	}

	// 2. Xóa bản ghi lịch sử trong MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Kết nối lỗi: %v", err)
	}
	defer client.Disconnect(ctx)

	result, err := client.Database(dbName).Collection("infographic_batches").
		DeleteMany(ctx, bson.M{"createdAt": bson.M{"$lt": cutoff.UnixMilli()}})
	if err != nil {
		log.Fatalf("Xóa bản ghi lịch sử lỗi: %v", err)
	}

	fmt.Printf("=== Kết quả: %d thư mục, %d bản ghi lịch sử đã xóa ===\n", removedDirs, result.DeletedCount)
}
