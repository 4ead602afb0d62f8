package worker

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	infographicsvc "meta_infographic/internal/api/infographic/service"
	"meta_infographic/internal/logger"
)

// BatchRetentionWorker worker dọn dẹp batch cũ: xóa thư mục batch trên đĩa
// và bản ghi lịch sử trong MongoDB quá hạn giữ.
// Chạy định kỳ (mặc định 1 giờ), mỗi lần quét toàn bộ thư mục output.
type BatchRetentionWorker struct {
	batchService *infographicsvc.InfographicBatchService
	outputRoot   string        // Thư mục gốc chứa các batch
	batchPrefix  string        // Prefix tên thư mục batch (vd: api_batch)
	retention    time.Duration // Tuổi tối đa của một batch trước khi bị xóa
	interval     time.Duration // Khoảng thời gian giữa các lần chạy
}

// NewBatchRetentionWorker tạo mới BatchRetentionWorker.
// Tham số:
//   - outputRoot: Thư mục gốc chứa các batch
//   - batchPrefix: Prefix tên thư mục batch
//   - retentionDays: Số ngày giữ batch (caller phải đảm bảo > 0)
//   - interval: Khoảng thời gian giữa các lần chạy (mặc định: 1 giờ)
func NewBatchRetentionWorker(outputRoot, batchPrefix string, retentionDays int, interval time.Duration) (*BatchRetentionWorker, error) {
	batchService, err := infographicsvc.NewInfographicBatchService()
	if err != nil {
		return nil, err
	}

	if interval < time.Minute {
		interval = time.Hour
	}

	return &BatchRetentionWorker{
		batchService: batchService,
		outputRoot:   outputRoot,
		batchPrefix:  batchPrefix,
		retention:    time.Duration(retentionDays) * 24 * time.Hour,
		interval:     interval,
	}, nil
}

// Start bắt đầu background worker dọn dẹp batch quá hạn.
// Mỗi chu kỳ: xóa thư mục batch quá hạn trên đĩa, sau đó xóa bản ghi lịch sử tương ứng trong MongoDB.
func (w *BatchRetentionWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval":   w.interval.String(),
		"retention":  w.retention.String(),
		"outputRoot": w.outputRoot,
	}).Info("🧹 [BATCH_RETENTION] Starting Batch Retention Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🧹 [BATCH_RETENTION] Batch Retention Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("🧹 [BATCH_RETENTION] Panic khi dọn dẹp batch, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()

				cutoff := time.Now().Add(-w.retention)

				removedDirs := w.removeExpiredDirs(cutoff)

				deletedRecords, err := w.batchService.DeleteMany(ctx, map[string]interface{}{
					"createdAt": map[string]interface{}{"$lt": cutoff.UnixMilli()},
				})
				if err != nil {
					log.WithError(err).Error("🧹 [BATCH_RETENTION] Lỗi xóa bản ghi lịch sử quá hạn")
				}

				if removedDirs > 0 || deletedRecords > 0 {
					log.WithFields(map[string]interface{}{
						"removedDirs":    removedDirs,
						"deletedRecords": deletedRecords,
						"cutoff":         cutoff.Format(time.RFC3339),
					}).Info("🧹 [BATCH_RETENTION] Đã dọn dẹp batch quá hạn")
				}
				// Nếu không có gì để xóa, không log (giảm log noise)
			}()
		}
	}
}

// removeExpiredDirs quét thư mục output, xóa các thư mục batch có timestamp trước cutoff.
// Chỉ xóa thư mục có tên bắt đầu bằng batchPrefix để tránh đụng vào dữ liệu khác.
// Trả về số thư mục đã xóa.
func (w *BatchRetentionWorker) removeExpiredDirs(cutoff time.Time) int {
	log := logger.GetAppLogger()

	entries, err := os.ReadDir(w.outputRoot)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).Error("🧹 [BATCH_RETENTION] Lỗi đọc thư mục output")
		}
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), w.batchPrefix+"_") {
			continue
		}

		createdAt, ok := parseBatchDirTime(entry.Name(), w.batchPrefix)
		if !ok {
			// Không parse được timestamp từ tên, dùng mtime của thư mục
			info, err := entry.Info()
			if err != nil {
				continue
			}
			createdAt = info.ModTime()
		}

		if !createdAt.Before(cutoff) {
			continue
		}

		dirPath := filepath.Join(w.outputRoot, entry.Name())
		if err := os.RemoveAll(dirPath); err != nil {
			log.WithError(err).WithFields(map[string]interface{}{
				"dir": dirPath,
			}).Warn("🧹 [BATCH_RETENTION] Không xóa được thư mục batch, sẽ thử lại lần sau")
			continue
		}
		removed++
	}

	return removed
}

// parseBatchDirTime tách Unix timestamp từ tên thư mục batch dạng <prefix>_<unix>_<hash>_<topic>.
// Trả về false nếu tên không đúng định dạng batch (vd: thư mục lạ trong output root).
func parseBatchDirTime(name, prefix string) (time.Time, bool) {
	if !strings.HasPrefix(name, prefix+"_") {
		return time.Time{}, false
	}
	rest := strings.TrimPrefix(name, prefix+"_")

	parts := strings.SplitN(rest, "_", 2)
	if len(parts) < 2 {
		return time.Time{}, false
	}

	ts, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || ts <= 0 {
		return time.Time{}, false
	}

	return time.Unix(ts, 0), true
}
