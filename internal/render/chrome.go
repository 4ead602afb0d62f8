package render

import (
	"context"
	"fmt"

	"meta_infographic/internal/logger"

	"github.com/chromedp/chromedp"
)

// Viewport là kích thước viewport của tab browser
type Viewport struct {
	Width  int64
	Height int64
}

// Các đoạn JS chạy trong trang. Giữ logic giống hệt giữa các strategy
// để SVG trích ra không phụ thuộc cách chạy browser.
const (
	// jsRuntimeCheck kiểm tra d3 đã được load từ CDN chưa
	jsRuntimeCheck = `typeof d3 !== 'undefined'`

	// jsInspectOutput đọc thông tin svg để validate nội dung
	jsInspectOutput = `(() => {
		const svg = document.querySelector('svg');
		if (!svg) return { found: false, children: 0, textElements: 0, width: 0, height: 0 };
		return {
			found: true,
			children: svg.children.length,
			textElements: svg.querySelectorAll('text').length,
			width: svg.getBoundingClientRect().width,
			height: svg.getBoundingClientRect().height
		};
	})()`

	// jsSerializeOutput clone svg, gắn xmlns, bỏ các thẻ style rồi trả outerHTML.
	// Clone để không đụng vào DOM gốc đang hiển thị.
	jsSerializeOutput = `(() => {
		const svg = document.querySelector('svg');
		if (!svg) return '';

		const svgClone = svg.cloneNode(true);
		svgClone.setAttribute('xmlns', 'http://www.w3.org/2000/svg');

		const styleElements = svgClone.querySelectorAll('style');
		styleElements.forEach(style => style.remove());

		return svgClone.outerHTML;
	})()`
)

// ChromeSession là Session chạy trên Chrome headless qua chromedp.
// Mỗi session sở hữu một browser process riêng, Close sẽ tắt cả process.
type ChromeSession struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
}

// NewChromeSession khởi động Chrome headless với viewport cho trước.
// Browser được khởi động ngay để lỗi launch lộ ra tại đây thay vì ở lần Load đầu.
func NewChromeSession(parent context.Context, vp Viewport) (*ChromeSession, error) {
	if vp.Width <= 0 {
		vp.Width = 1200
	}
	if vp.Height <= 0 {
		vp.Height = 800
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	session := &ChromeSession{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
	}

	// Run đầu tiên khởi động browser process và set viewport
	if err := chromedp.Run(tabCtx, chromedp.EmulateViewport(vp.Width, vp.Height)); err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to launch headless browser: %w", err)
	}

	logger.GetAppLogger().WithFields(map[string]interface{}{
		"module": "render",
		"width":  vp.Width,
		"height": vp.Height,
	}).Debug("Đã khởi động Chrome headless")

	return session, nil
}

// Load điều hướng tab tới URL của tài liệu
func (s *ChromeSession) Load(ctx context.Context, url string) error {
	err := s.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to load document %s: %w", url, err)
	}
	return nil
}

// RuntimeAvailable kiểm tra d3 đã load trong trang chưa
func (s *ChromeSession) RuntimeAvailable(ctx context.Context) (bool, error) {
	var available bool
	if err := s.run(ctx, chromedp.Evaluate(jsRuntimeCheck, &available)); err != nil {
		return false, fmt.Errorf("runtime check failed: %w", err)
	}
	return available, nil
}

// Inspect đọc thông tin SVG hiện có trong DOM
func (s *ChromeSession) Inspect(ctx context.Context) (*OutputInfo, error) {
	var info OutputInfo
	if err := s.run(ctx, chromedp.Evaluate(jsInspectOutput, &info)); err != nil {
		return nil, fmt.Errorf("svg inspection failed: %w", err)
	}
	return &info, nil
}

// Serialize trích SVG từ DOM dưới dạng outerHTML đã chuẩn hóa
func (s *ChromeSession) Serialize(ctx context.Context) (string, error) {
	var content string
	if err := s.run(ctx, chromedp.Evaluate(jsSerializeOutput, &content)); err != nil {
		return "", fmt.Errorf("svg serialization failed: %w", err)
	}
	return content, nil
}

// Close đóng tab và tắt browser process
func (s *ChromeSession) Close() error {
	if s.tabCancel != nil {
		s.tabCancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
	return nil
}

// run chạy các action trên tab, tôn trọng deadline và cancellation của caller ctx.
// Context dẫn xuất từ tabCtx để mang browser, hủy context dẫn xuất chỉ dừng
// action đang chạy chứ không đóng tab.
func (s *ChromeSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.tabCtx)
	defer cancel()

	if deadline, ok := ctx.Deadline(); ok {
		var dcancel context.CancelFunc
		runCtx, dcancel = context.WithDeadline(runCtx, deadline)
		defer dcancel()
	}

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}
