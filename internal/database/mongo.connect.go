package database

import (
	"context"
	"fmt"
	"time"

	"meta_infographic/config"
	"meta_infographic/internal/logger"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Pool và timeout khi nói chuyện với MongoDB
const (
	maxPoolSize    = 50
	minPoolSize    = 10
	connectTimeout = 5 * time.Second
	socketTimeout  = 10 * time.Second
)

// GetInstance kết nối tới MongoDB theo cấu hình và ping thử trước khi trả về.
//
// Tham số:
// - c: Cấu hình server chứa connection URI và tên database.
//
// Trả về:
// - *mongo.Client: Client đã kết nối và ping thành công.
// - error: Lỗi nếu URI rỗng, kết nối thất bại hoặc ping thất bại.
func GetInstance(c *config.Configuration) (*mongo.Client, error) {
	if c.MongoDB_ConnectionURI == "" {
		return nil, fmt.Errorf("database connection URL is empty")
	}

	clientOptions := options.Client().
		ApplyURI(c.MongoDB_ConnectionURI).
		SetMaxPoolSize(maxPoolSize).
		SetMinPoolSize(minPoolSize).
		SetConnectTimeout(connectTimeout).
		SetSocketTimeout(socketTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Kiểm tra kết nối, lỗi cấu hình lộ ra ngay lúc khởi động
	ctxPing, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancelPing()

	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"database":    c.MongoDB_DBName,
		"maxPoolSize": maxPoolSize,
	}).Info("Đã kết nối MongoDB")
	return client, nil
}

// CloseInstance ngắt kết nối MongoDB, chờ tối đa 5 giây cho các thao tác đang chạy
func CloseInstance(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Disconnect(ctx); err != nil {
		logger.GetAppLogger().WithError(err).Error("Không ngắt được kết nối MongoDB")
		return err
	}
	logger.GetAppLogger().Info("Đã ngắt kết nối MongoDB")
	return nil
}
