// Liệt kê các batch infographic mới nhất trong DB.
//
// Chạy: go run ./scripts/list_batches
// Hoặc lọc theo status: go run ./scripts/list_batches <status>
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
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

	filter := bson.M{}
	if len(os.Args) > 1 && os.Args[1] != "" {
		filter["status"] = os.Args[1]
		log.Printf("Lọc theo status: %s\n", os.Args[1])
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Kết nối lỗi: %v", err)
	}
	defer client.Disconnect(ctx)

	cursor, err := client.Database(dbName).Collection("infographic_batches").
		Find(ctx, filter,
			options.Find().SetProjection(bson.M{"topic": 1, "status": 1, "successCount": 1, "targetCount": 1, "elapsedSeconds": 1, "createdAt": 1}).SetSort(bson.M{"createdAt": -1}).SetLimit(20))
	if err != nil {
		log.Fatal(err)
	}
	defer cursor.Close(ctx)

	fmt.Println("=== Infographic batches (20 mới nhất) ===")
	count := 0
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		count++
		createdAt := ""
		if ms, ok := doc["createdAt"].(int64); ok {
			createdAt = time.UnixMilli(ms).Format("2006-01-02 15:04:05")
		}
		fmt.Printf("%d. [%v] %v/%v ok, %.1fs, %s | %v\n",
			count, doc["status"], doc["successCount"], doc["targetCount"], toFloat(doc["elapsedSeconds"]), createdAt, doc["topic"])
	}
	if count == 0 {
		fmt.Println("Không có batch nào")
	}
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	default:
		return 0
	}
}
