package global

import (
	"meta_infographic/config"
	"meta_infographic/internal/pipeline"
	"meta_infographic/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionName chứa tên các collection trong MongoDB
type MongoDB_CollectionName struct {
	InfographicBatches string // Tên collection cho lịch sử batch tạo infographic
}

// Các biến toàn cục
var Validate *validator.Validate                                       // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client                                      // Phiên kết nối tới MongoDB
var MongoDB_ServerConfig *config.Configuration                         // Cấu hình của server
var MongoDB_ColNames MongoDB_CollectionName = MongoDB_CollectionName{} // Tên các collection
var PipelineOrchestrator *pipeline.Orchestrator                        // Orchestrator pipeline sinh infographic (khởi tạo ở cmd/server)

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
var RegistryDatabase = registry.NewRegistry[*mongo.Database]()      // Registry chứa các databases
