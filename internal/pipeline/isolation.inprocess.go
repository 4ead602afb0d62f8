package pipeline

import (
	"context"
	"fmt"
	"sync"

	"meta_infographic/internal/logger"
	"meta_infographic/internal/render"
)

// InProcessStrategy chạy headless browser ngay trong process hiện tại.
// Dùng cho môi trường không cho spawn process con. Mutex giữ mỗi lúc chỉ
// một browser sống nên mức dùng tài nguyên tương đương chạy subprocess
// tuần tự; crash của browser tab vẫn cách ly trong chromedp, nhưng crash
// của chính process thì không có gì đỡ.
type InProcessStrategy struct {
	Viewport render.Viewport
	Gates    Gates

	mu         sync.Mutex
	newSession func(ctx context.Context, vp render.Viewport) (render.Session, error)
}

// NewInProcessStrategy dựng strategy mở browser bằng chromedp
func NewInProcessStrategy(viewport render.Viewport, gates Gates) *InProcessStrategy {
	return &InProcessStrategy{
		Viewport: viewport,
		Gates:    gates,
		newSession: func(ctx context.Context, vp render.Viewport) (render.Session, error) {
			return render.NewChromeSession(ctx, vp)
		},
	}
}

// Name trả về tên đăng ký của chiến lược
func (s *InProcessStrategy) Name() string {
	return StrategyInProcess
}

// Extract mở một browser, chạy trích xuất rồi đóng browser.
// Các slot gọi song song sẽ xếp hàng qua mutex và chạy lần lượt.
func (s *InProcessStrategy) Extract(ctx context.Context, req ExtractionRequest) *ExtractionReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Attempt có thể đã hết hạn trong lúc xếp hàng chờ mutex
	if ctx.Err() != nil {
		return reportFromContext(ctx)
	}

	log := logger.GetAppLogger().WithFields(map[string]interface{}{
		"module":  "pipeline",
		"variant": req.VariantName,
	})
	log.Info("🖼️ [EXTRACTION] Mở browser in-process")

	session, err := s.newSession(ctx, s.Viewport)
	if err != nil {
		log.WithField("error", err.Error()).Error("🖼️ [EXTRACTION] Không khởi động được browser")
		return &ExtractionReport{
			Success: false,
			Reason:  ReasonIsolationFailure,
			Message: fmt.Sprintf("Browser launch failed for %s: %v", req.VariantName, err),
		}
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			log.WithField("error", closeErr.Error()).Warn("🖼️ [EXTRACTION] Đóng browser gặp lỗi")
		}
	}()

	return PerformExtraction(ctx, session, s.Gates, req)
}
