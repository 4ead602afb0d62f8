package infographicsvc

import (
	"fmt"
	basesvc "meta_infographic/internal/api/base/service"
	infographicmodels "meta_infographic/internal/api/infographic/models"
	"meta_infographic/internal/common"
	"meta_infographic/internal/global"
)

// InfographicBatchService là service quản lý lịch sử batch sinh infographic
type InfographicBatchService struct {
	*basesvc.BaseServiceMongoImpl[infographicmodels.InfographicBatch]
}

// NewInfographicBatchService tạo mới InfographicBatchService
func NewInfographicBatchService() (*InfographicBatchService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.InfographicBatches)
	if !exist {
		return nil, fmt.Errorf("failed to get infographic_batches collection: %v", common.ErrNotFound)
	}
	return &InfographicBatchService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[infographicmodels.InfographicBatch](collection),
	}, nil
}
