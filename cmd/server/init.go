package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"meta_infographic/config"
	infographicmodels "meta_infographic/internal/api/infographic/models"
	"meta_infographic/internal/database"
	"meta_infographic/internal/generation"
	"meta_infographic/internal/global"
	"meta_infographic/internal/pipeline"
	"meta_infographic/internal/render"

	"github.com/sirupsen/logrus"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
	initPipeline()         // Khởi tạo pipeline sinh infographic
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.InfographicBatches = "infographic_batches"

	logrus.Info("Initialized collection names") // Ghi log thông báo đã khởi tạo tên các collection
}

// Hàm khởi tạo validator (dùng global.InitValidator để đăng ký custom validators)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator") // Ghi log thông báo đã khởi tạo validator
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil") // Ghi log lỗi nếu khởi tạo cấu hình thất bại
	}
	logrus.Info("Initialized server config") // Ghi log thông báo đã khởi tạo cấu hình server
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err) // Ghi log lỗi nếu kết nối database thất bại
	}
	logrus.Info("Connected to MongoDB") // Ghi log thông báo đã kết nối database thành công

	// Khởi tạo các db và collections nếu chưa có
	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to ensure database and collections: %v", err)
	}
	logrus.Info("Ensured database and collections") // Ghi log thông báo đã đảm bảo database và các collection

	// Khởi tạo các index cho các collection
	dbName := global.MongoDB_ServerConfig.MongoDB_DBName
	database.CreateIndexes(context.TODO(), global.MongoDB_Session.Database(dbName).Collection(global.MongoDB_ColNames.InfographicBatches), infographicmodels.InfographicBatch{})
}

// initPipeline khởi tạo pipeline sinh infographic: Gemini client, các chiến lược
// cách ly trích xuất và orchestrator dùng chung cho toàn bộ request.
func initPipeline() {
	cfg := global.MongoDB_ServerConfig

	client, err := generation.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logrus.Fatalf("Failed to initialize Gemini client: %v", err)
	}

	viewport := render.Viewport{
		Width:  int64(cfg.PipelineViewportWidth),
		Height: int64(cfg.PipelineViewportHeight),
	}
	gates := pipeline.Gates{
		LoadTimeout:    time.Duration(cfg.PipelineLoadTimeoutSeconds) * time.Second,
		RuntimeSettle:  time.Duration(cfg.PipelineRuntimeSettleSeconds) * time.Second,
		RuntimeRetry:   time.Duration(cfg.PipelineRuntimeRetrySeconds) * time.Second,
		OutputTimeout:  time.Duration(cfg.PipelineOutputTimeoutSeconds) * time.Second,
		OutputPoll:     time.Duration(cfg.PipelineOutputPollMillis) * time.Millisecond,
		ValidateSettle: time.Duration(cfg.PipelineValidateSettleSeconds) * time.Second,
		MinChildren:    cfg.PipelineMinChildren,
	}

	// Đăng ký cả hai chiến lược cách ly, chọn chiến lược chạy theo config
	pipeline.RegisterStrategy(pipeline.NewSubprocessStrategy(resolveExtractorBin(cfg.PipelineExtractorBin), viewport, gates))
	pipeline.RegisterStrategy(pipeline.NewInProcessStrategy(viewport, gates))

	strategy, err := pipeline.StrategyByName(cfg.PipelineIsolation)
	if err != nil {
		logrus.Fatalf("Failed to resolve isolation strategy: %v", err)
	}

	global.PipelineOrchestrator = pipeline.NewOrchestrator(client, strategy, pipeline.Options{
		OutputRoot:      cfg.PipelineOutputRoot,
		BatchPrefix:     cfg.PipelineBatchPrefix,
		DefaultVariants: cfg.PipelineDefaultVariants,
		MaxVariants:     cfg.PipelineMaxVariants,
		Stagger:         time.Duration(cfg.PipelineStaggerSeconds) * time.Second,
		AttemptTimeout:  time.Duration(cfg.PipelineAttemptTimeoutSeconds) * time.Second,
		BatchTimeout:    time.Duration(cfg.PipelineBatchTimeoutSeconds) * time.Second,
	})

	logrus.Infof("Initialized infographic pipeline (model: %s, isolation: %s)", cfg.GeminiModel, strategy.Name())
}

// resolveExtractorBin trả về đường dẫn binary extractor.
// Rỗng trong config nghĩa là extractor nằm cạnh binary server.
func resolveExtractorBin(configured string) string {
	if configured != "" {
		return configured
	}
	execPath, err := os.Executable()
	if err != nil {
		return "extractor"
	}
	return filepath.Join(filepath.Dir(execPath), "extractor")
}
