package infographicsvc

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	infographicdto "meta_infographic/internal/api/infographic/dto"
	infographicmodels "meta_infographic/internal/api/infographic/models"
	"meta_infographic/internal/common"
	"meta_infographic/internal/global"
	"meta_infographic/internal/logger"
	"meta_infographic/internal/pipeline"
)

// defaultStylePreference là phong cách mặc định khi client không chỉ định,
// giữ nguyên giá trị của API contract cũ
const defaultStylePreference = "creative and modern"

// InfographicGenerateService chạy pipeline sinh infographic đồng bộ và ghi
// lịch sử batch vào MongoDB. Lỗi ghi lịch sử không làm hỏng request: pipeline
// vẫn chạy và client vẫn nhận kết quả, chỉ log cảnh báo.
type InfographicGenerateService struct {
	orchestrator *pipeline.Orchestrator
	batchService *InfographicBatchService
}

// NewInfographicGenerateService tạo mới InfographicGenerateService
func NewInfographicGenerateService() (*InfographicGenerateService, error) {
	if global.PipelineOrchestrator == nil {
		return nil, fmt.Errorf("failed to get pipeline orchestrator: %v", common.ErrNotFound)
	}

	batchService, err := NewInfographicBatchService()
	if err != nil {
		return nil, fmt.Errorf("failed to create infographic batch service: %v", err)
	}

	return &InfographicGenerateService{
		orchestrator: global.PipelineOrchestrator,
		batchService: batchService,
	}, nil
}

// Generate chạy trọn một lần sinh infographic: ghi record pending, chuyển
// generating, chạy orchestrator, rồi finalize record completed/failed.
// Trả về kết quả kèm payload SVG base64 cho từng biến thể thành công.
func (s *InfographicGenerateService) Generate(ctx context.Context, input *infographicdto.InfographicGenerateInput) (*infographicdto.InfographicGenerateOutput, error) {
	log := logger.GetAppLogger().WithField("module", "infographic")

	topic := strings.TrimSpace(input.Prompt)
	if topic == "" {
		return nil, common.ErrTopicEmpty
	}

	style := input.StylePreference
	if style == "" {
		style = defaultStylePreference
	}

	total := s.orchestrator.ResolveVariants(input.VariantCount)

	// Ghi record lịch sử, status lấy default "pending" từ struct tag
	batchID := s.insertHistory(ctx, topic, style, total)
	if !batchID.IsZero() {
		s.updateHistory(ctx, batchID, map[string]interface{}{
			"status":    infographicmodels.InfographicBatchStatusGenerating,
			"startedAt": time.Now().UnixMilli(),
		})
	}

	result, err := s.orchestrator.Run(ctx, pipeline.BatchRequest{
		Topic:    topic,
		Style:    style,
		Variants: input.VariantCount,
	})
	if err != nil {
		if !batchID.IsZero() {
			fields := map[string]interface{}{
				"status":      infographicmodels.InfographicBatchStatusFailed,
				"error":       err.Error(),
				"completedAt": time.Now().UnixMilli(),
			}
			// Batch đã chạy được tới pipeline: giữ lại chi tiết từng slot
			// và thời gian chạy trong lịch sử dù request trả về lỗi
			if result != nil {
				_, modelVariants, _ := s.collectVariants(result)
				fields["variants"] = modelVariants
				fields["successCount"] = 0
				fields["batchName"] = result.BatchName
				fields["outputDir"] = result.OutputDir
				fields["elapsedSeconds"] = result.Elapsed.Seconds()
			}
			s.updateHistory(ctx, batchID, fields)
		}
		return nil, err
	}

	variants, modelVariants, succeeded := s.collectVariants(result)

	output := &infographicdto.InfographicGenerateOutput{
		Success:        succeeded > 0,
		Message:        fmt.Sprintf("Successfully generated %d/%d infographic variants", succeeded, len(result.Variants)),
		Variants:       variants,
		ElapsedSeconds: result.Elapsed.Seconds(),
		OutputDir:      result.OutputDir,
	}

	if !batchID.IsZero() {
		output.BatchID = batchID.Hex()

		status := infographicmodels.InfographicBatchStatusCompleted
		if succeeded == 0 {
			status = infographicmodels.InfographicBatchStatusFailed
		}
		s.updateHistory(ctx, batchID, map[string]interface{}{
			"status":         status,
			"successCount":   succeeded,
			"variants":       modelVariants,
			"batchName":      result.BatchName,
			"outputDir":      result.OutputDir,
			"elapsedSeconds": result.Elapsed.Seconds(),
			"completedAt":    time.Now().UnixMilli(),
		})
	}

	logger.GetPerformanceLogger().WithFields(logrus.Fields{
		"operation":      "infographic_generate",
		"batch":          result.BatchName,
		"variants":       len(result.Variants),
		"succeeded":      succeeded,
		"elapsedSeconds": result.Elapsed.Seconds(),
	}).Info("Thời gian chạy batch pipeline")

	log.WithFields(logrus.Fields{
		"batch":     result.BatchName,
		"succeeded": succeeded,
		"total":     len(result.Variants),
	}).Info("🎨 [INFOGRAPHIC] Hoàn tất request sinh infographic")

	return output, nil
}

// collectVariants đọc SVG của các slot thành công từ đĩa, encode base64 và
// build song song hai dạng kết quả: DTO trả client và embedded document ghi
// lịch sử. Slot không đọc được file bị hạ xuống thất bại ở cả hai dạng.
func (s *InfographicGenerateService) collectVariants(result *pipeline.BatchResult) ([]infographicdto.InfographicVariantOutput, []infographicmodels.InfographicVariant, int) {
	log := logger.GetAppLogger().WithField("module", "infographic")

	outputs := make([]infographicdto.InfographicVariantOutput, 0, len(result.Variants))
	records := make([]infographicmodels.InfographicVariant, 0, len(result.Variants))
	succeeded := 0

	for _, v := range result.Variants {
		out := infographicdto.InfographicVariantOutput{
			Slot:     v.Slot + 1,
			Success:  v.Success,
			Message:  v.Message,
			ByteSize: v.FileSize,
		}
		record := infographicmodels.InfographicVariant{
			Slot:     v.Slot + 1,
			Success:  v.Success,
			Reason:   string(v.Reason),
			Message:  v.Message,
			ByteSize: v.FileSize,
		}

		if v.Success {
			data, err := os.ReadFile(v.OutputPath)
			if err != nil {
				log.WithFields(logrus.Fields{
					"slot":  v.Slot + 1,
					"path":  v.OutputPath,
					"error": err.Error(),
				}).Warn("⚠️ [INFOGRAPHIC] Không đọc được file SVG vừa trích xuất")
				out.Success = false
				out.Message = fmt.Sprintf("Failed to read SVG artifact: %v", err)
				record.Success = false
				record.Message = out.Message
			} else {
				out.ArtifactPath = v.OutputPath
				out.SvgBase64 = base64.StdEncoding.EncodeToString(data)
				record.ArtifactPath = v.OutputPath
				succeeded++
			}
		}

		outputs = append(outputs, out)
		records = append(records, record)
	}

	return outputs, records, succeeded
}

// insertHistory ghi record lịch sử mới, trả về zero ObjectID nếu ghi thất bại
func (s *InfographicGenerateService) insertHistory(ctx context.Context, topic, style string, total int) primitive.ObjectID {
	batch, err := s.batchService.InsertOne(ctx, infographicmodels.InfographicBatch{
		Topic:       topic,
		Style:       style,
		TargetCount: total,
	})
	if err != nil {
		logger.GetAppLogger().WithFields(logrus.Fields{
			"topic": topic,
			"error": err.Error(),
		}).Warn("⚠️ [INFOGRAPHIC] Không ghi được lịch sử batch, tiếp tục chạy pipeline")
		return primitive.NilObjectID
	}
	return batch.ID
}

// updateHistory cập nhật record lịch sử, chỉ log cảnh báo khi thất bại
func (s *InfographicGenerateService) updateHistory(ctx context.Context, id primitive.ObjectID, fields map[string]interface{}) {
	if _, err := s.batchService.UpdateById(ctx, id, fields); err != nil {
		logger.GetAppLogger().WithFields(logrus.Fields{
			"batchId": id.Hex(),
			"error":   err.Error(),
		}).Warn("⚠️ [INFOGRAPHIC] Không cập nhật được lịch sử batch")
	}
}
