// Package notify gửi email thông báo khi một batch infographic kết thúc (completed hoặc failed).
// Notifier lắng nghe event thay đổi dữ liệu từ tầng CRUD, không can thiệp vào pipeline.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"meta_infographic/config"
	"meta_infographic/internal/api/events"
	infographicmodels "meta_infographic/internal/api/infographic/models"
	"meta_infographic/internal/global"
	"meta_infographic/internal/logger"
	"meta_infographic/internal/utility"
)

// EmailNotifier gửi email tổng kết batch qua SMTP.
type EmailNotifier struct {
	host       string
	port       int
	user       string
	password   string
	from       string
	recipients []string
}

// NewEmailNotifier tạo notifier từ cấu hình SMTP.
// Trả về lỗi nếu thiếu host hoặc danh sách người nhận (caller quyết định có bật notifier hay không).
func NewEmailNotifier(cfg *config.Configuration) (*EmailNotifier, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP host chưa được cấu hình")
	}

	var recipients []string
	for _, addr := range strings.Split(cfg.SMTPNotifyTo, ",") {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			recipients = append(recipients, addr)
		}
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("danh sách người nhận thông báo (SMTP_NOTIFY_TO) rỗng")
	}

	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}

	return &EmailNotifier{
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		user:       cfg.SMTPUser,
		password:   cfg.SMTPPassword,
		from:       from,
		recipients: recipients,
	}, nil
}

// Register đăng ký notifier vào event stream thay đổi dữ liệu.
// Gọi một lần khi khởi động server, sau khi đã init collection names.
func (n *EmailNotifier) Register() {
	events.OnDataChanged(n.handleDataChanged)

	log := logger.GetAppLogger()
	log.WithFields(map[string]interface{}{
		"host":       n.host,
		"port":       n.port,
		"recipients": len(n.recipients),
	}).Info("📧 [NOTIFY] Email notifier đã đăng ký")
}

// handleDataChanged lọc event: chỉ phản ứng khi một batch infographic chuyển sang trạng thái kết thúc.
func (n *EmailNotifier) handleDataChanged(ctx context.Context, e events.DataChangeEvent) {
	if e.CollectionName != global.MongoDB_ColNames.InfographicBatches {
		return
	}
	if e.Operation != events.OpUpdate {
		return
	}

	batch, ok := batchFromDocument(e.Document)
	if !ok {
		return
	}
	if batch.Status != infographicmodels.InfographicBatchStatusCompleted &&
		batch.Status != infographicmodels.InfographicBatchStatusFailed {
		return
	}

	log := logger.GetAppLogger()
	if err := n.sendBatchEmail(batch); err != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"batchId": batch.ID.Hex(),
			"status":  batch.Status,
		}).Warn("📧 [NOTIFY] Gửi email thông báo batch thất bại")
		return
	}

	log.WithFields(map[string]interface{}{
		"batchId":    batch.ID.Hex(),
		"status":     batch.Status,
		"recipients": len(n.recipients),
	}).Info("📧 [NOTIFY] Đã gửi email thông báo batch")
}

// batchFromDocument lấy InfographicBatch từ document của event (chấp nhận cả value và pointer).
func batchFromDocument(doc interface{}) (*infographicmodels.InfographicBatch, bool) {
	switch b := doc.(type) {
	case infographicmodels.InfographicBatch:
		return &b, true
	case *infographicmodels.InfographicBatch:
		if b == nil {
			return nil, false
		}
		return b, true
	default:
		return nil, false
	}
}

// sendBatchEmail gửi email tổng kết một batch đã kết thúc.
func (n *EmailNotifier) sendBatchEmail(batch *infographicmodels.InfographicBatch) error {
	var subject string
	if batch.Status == infographicmodels.InfographicBatchStatusCompleted {
		subject = fmt.Sprintf("[Infographic] Hoàn tất batch: %s (%d/%d thành công)", batch.Topic, batch.SuccessCount, batch.TargetCount)
	} else {
		subject = fmt.Sprintf("[Infographic] Batch thất bại: %s", batch.Topic)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", n.recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", n.buildBatchBody(batch))

	dialer := gomail.NewDialer(n.host, n.port, n.user, n.password)
	return dialer.DialAndSend(msg)
}

// buildBatchBody dựng nội dung HTML của email tổng kết batch.
func (n *EmailNotifier) buildBatchBody(batch *infographicmodels.InfographicBatch) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("<h3>Batch infographic: %s</h3>", batch.Topic))
	b.WriteString("<ul>")
	b.WriteString(fmt.Sprintf("<li>Trạng thái: <b>%s</b></li>", batch.Status))
	b.WriteString(fmt.Sprintf("<li>Thành công: %d/%d biến thể</li>", batch.SuccessCount, batch.TargetCount))
	if batch.ElapsedSeconds > 0 {
		b.WriteString(fmt.Sprintf("<li>Thời gian chạy: %.1f giây</li>", batch.ElapsedSeconds))
	}
	if batch.OutputDir != "" {
		b.WriteString(fmt.Sprintf("<li>Thư mục output: %s</li>", batch.OutputDir))
	}
	if batch.CompletedAt > 0 {
		b.WriteString(fmt.Sprintf("<li>Kết thúc lúc: %s</li>", time.UnixMilli(batch.CompletedAt).Format(time.RFC3339)))
	}
	if batch.Error != "" {
		b.WriteString(fmt.Sprintf("<li>Lỗi: %s</li>", batch.Error))
	}
	b.WriteString("</ul>")

	if len(batch.Variants) > 0 {
		b.WriteString("<h4>Chi tiết biến thể</h4><ul>")
		for _, v := range batch.Variants {
			line := fmt.Sprintf("Biến thể %d: %s", v.Slot, v.Message)
			if v.Success && v.ByteSize > 0 {
				line += fmt.Sprintf(" (%s)", utility.FormatBytes(uint64(v.ByteSize)))
			}
			b.WriteString("<li>" + line + "</li>")
		}
		b.WriteString("</ul>")
	}

	return b.String()
}
