package main

import (
	"context"
	"os"
	"time"

	"meta_infographic/internal/database"
	"meta_infographic/internal/global"
	"meta_infographic/internal/logger"
)

// InitDefaultData chuẩn bị môi trường chạy của pipeline: thư mục output
// và các index bổ sung cho lịch sử batch.
func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	cfg := global.MongoDB_ServerConfig

	// 1. Đảm bảo thư mục output của pipeline tồn tại
	log.Info("🔄 [INIT] Step 1: Ensuring pipeline output directory...")
	if err := os.MkdirAll(cfg.PipelineOutputRoot, 0755); err != nil {
		log.Fatalf("Failed to create pipeline output directory %s: %v", cfg.PipelineOutputRoot, err)
	}
	log.Infof("✅ [INIT] Step 1: Pipeline output directory ready (%s)", cfg.PipelineOutputRoot)

	// 2. Tạo index bổ sung cho lịch sử batch (compound index không khai báo được qua model tags)
	log.Info("🔄 [INIT] Step 2: Creating additional batch indexes...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := global.MongoDB_Session.Database(cfg.MongoDB_DBName)
	if err := database.CreateBatchAdditionalIndexes(ctx, db); err != nil {
		log.WithError(err).Warn("⚠️ [INIT] Step 2: Failed to create additional batch indexes")
	} else {
		log.Info("✅ [INIT] Step 2: Additional batch indexes created")
	}

	log.Info("✅ [INIT] InitDefaultData completed successfully")
}
