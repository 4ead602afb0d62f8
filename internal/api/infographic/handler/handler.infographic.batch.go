package infographichdl

import (
	"fmt"
	basehdl "meta_infographic/internal/api/base/handler"
	infographicdto "meta_infographic/internal/api/infographic/dto"
	infographicmodels "meta_infographic/internal/api/infographic/models"
	infographicsvc "meta_infographic/internal/api/infographic/service"
)

// InfographicBatchHandler xử lý các request liên quan đến batch sinh infographic:
// CRUD lịch sử batch và operation sinh đồng bộ (handler.infographic.generate.go)
type InfographicBatchHandler struct {
	*basehdl.BaseHandler[infographicmodels.InfographicBatch, infographicdto.InfographicBatchCreateInput, infographicdto.InfographicBatchUpdateInput]
	InfographicBatchService    *infographicsvc.InfographicBatchService
	InfographicGenerateService *infographicsvc.InfographicGenerateService
}

// NewInfographicBatchHandler tạo mới InfographicBatchHandler
func NewInfographicBatchHandler() (*InfographicBatchHandler, error) {
	infographicBatchService, err := infographicsvc.NewInfographicBatchService()
	if err != nil {
		return nil, fmt.Errorf("failed to create infographic batch service: %v", err)
	}

	infographicGenerateService, err := infographicsvc.NewInfographicGenerateService()
	if err != nil {
		return nil, fmt.Errorf("failed to create infographic generate service: %v", err)
	}

	hdl := &InfographicBatchHandler{
		InfographicBatchService:    infographicBatchService,
		InfographicGenerateService: infographicGenerateService,
	}
	hdl.BaseHandler = basehdl.NewBaseHandler[infographicmodels.InfographicBatch, infographicdto.InfographicBatchCreateInput, infographicdto.InfographicBatchUpdateInput](infographicBatchService.BaseServiceMongoImpl)

	return hdl, nil
}
