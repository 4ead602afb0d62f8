package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"meta_infographic/internal/database"
	"meta_infographic/internal/global"
	"meta_infographic/internal/logger"
	"meta_infographic/internal/notify"
	"meta_infographic/internal/worker"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	// Khởi tạo logger với cấu hình mặc định
	// Logger sẽ tự động đọc environment variables để cấu hình
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	// Log thông tin khởi tạo bằng logger mới
	log := logger.GetAppLogger()
	log.Info("Logger system initialized successfully")
}

// main_thread khởi tạo và chạy Fiber server
func main_thread() {
	// Khởi tạo app với cấu hình
	app := InitFiberApp()

	// Khởi động server với cấu hình listen
	cfg := global.MongoDB_ServerConfig
	address := cfg.Address

	log := logger.GetAppLogger()
	log.Info("Starting Fiber server...")

	// Bắt SIGINT/SIGTERM để dừng server gọn gàng, Listen sẽ trả về sau khi
	// các request đang chạy xong
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		sig := <-quit

		log.WithField("signal", sig.String()).Info("Nhận tín hiệu dừng, bắt đầu graceful shutdown")
		if err := app.ShutdownWithTimeout(15 * time.Second); err != nil {
			log.WithError(err).Error("Graceful shutdown lỗi")
		}
	}()

	// Helper function để resolve đường dẫn tương đối từ thư mục gốc của project
	resolvePath := func(path string) string {
		if filepath.IsAbs(path) {
			return path
		}
		// Tìm thư mục gốc chứa config/env
		currentDir, err := os.Getwd()
		if err != nil {
			return path
		}
		for {
			envDir := filepath.Join(currentDir, "config", "env")
			if _, err := os.Stat(envDir); err == nil {
				return filepath.Join(currentDir, path)
			}
			parentDir := filepath.Dir(currentDir)
			if parentDir == currentDir {
				return path
			}
			currentDir = parentDir
		}
	}

	// Kiểm tra xem có bật TLS không
	if cfg.EnableTLS && cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		// Resolve đường dẫn certificate và key
		certPath := resolvePath(cfg.TLSCertFile)
		keyPath := resolvePath(cfg.TLSKeyFile)

		// Kiểm tra file certificate và key tồn tại
		if _, err := os.Stat(certPath); os.IsNotExist(err) {
			log.Fatalf("TLS certificate file not found: %s (resolved from: %s)", certPath, cfg.TLSCertFile)
		}
		if _, err := os.Stat(keyPath); os.IsNotExist(err) {
			log.Fatalf("TLS key file not found: %s (resolved from: %s)", keyPath, cfg.TLSKeyFile)
		}

		// Load certificate và key
		cert, err := tls.LoadX509KeyPair(certPath, keyPath)
		if err != nil {
			log.Fatalf("Error loading TLS certificate: %v", err)
		}

		// Tạo listener với TLS
		ln, err := net.Listen("tcp", address)
		if err != nil {
			log.Fatalf("Error creating listener: %v", err)
		}

		// Cấu hình TLS
		tlsConfig := &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}

		// Wrap listener với TLS
		tlsListener := tls.NewListener(ln, tlsConfig)

		log.WithFields(map[string]interface{}{
			"address": address,
			"cert":    certPath,
			"key":     keyPath,
		}).Info("Starting server with HTTPS/TLS")

		// Khởi động server với TLS listener
		if err := app.Listener(tlsListener); err != nil {
			log.Fatalf("Error in Fiber Listener with TLS: %v", err)
		}
	} else {
		// Khởi động server HTTP thông thường
		log.WithFields(map[string]interface{}{
			"address":  address,
			"protocol": "HTTP",
		}).Info("Starting server with HTTP")

		listenConfig := fiber.ListenConfig{}
		if err := app.Listen(address, listenConfig); err != nil {
			log.Fatalf("Error in Fiber Listen: %v", err)
		}
	}

	// Server đã dừng, đóng kết nối MongoDB
	if global.MongoDB_Session != nil {
		_ = database.CloseInstance(global.MongoDB_Session)
	}
	log.Info("Server đã dừng")
}

// Hàm main
func main() {
	// Khởi tạo logger
	initLogger()

	// Khởi tạo các biến toàn cục
	InitGlobal()

	// Khởi tạo registry
	InitRegistry()

	// Khởi tạo dữ liệu mặc định
	InitDefaultData()

	log := logger.GetAppLogger()
	cfg := global.MongoDB_ServerConfig

	// Đăng ký email notifier nếu có cấu hình SMTP (tùy chọn)
	if cfg.SMTPHost != "" {
		notifier, err := notify.NewEmailNotifier(cfg)
		if err != nil {
			log.WithError(err).Warn("Cấu hình SMTP không hợp lệ, tiếp tục chạy không có email notifier")
		} else {
			notifier.Register()
		}
	} else {
		log.Info("SMTP chưa cấu hình, email notifier tắt")
	}

	// Khởi tạo và chạy Batch Retention Worker (background worker dọn batch quá hạn)
	if cfg.BatchRetentionDays > 0 {
		retentionWorker, err := worker.NewBatchRetentionWorker(
			cfg.PipelineOutputRoot,
			cfg.PipelineBatchPrefix,
			cfg.BatchRetentionDays,
			time.Duration(cfg.BatchCleanupIntervalMinutes)*time.Minute,
		)
		if err != nil {
			log.WithError(err).Error("Failed to create batch retention worker, continuing without cleanup")
		} else {
			// Tạo context với cancel để có thể dừng worker khi cần
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// Chạy worker trong goroutine riêng với recover
			go func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("🧹 [BATCH_RETENTION] Worker goroutine panic")
					}
				}()

				retentionWorker.Start(ctx)
			}()

			log.Info("🧹 [BATCH_RETENTION] Batch Retention Worker started successfully")
		}
	} else {
		log.Info("BATCH_RETENTION_DAYS = 0, batch retention worker tắt (giữ batch vĩnh viễn)")
	}

	// Chạy Fiber server trên main thread
	main_thread()
}
