// Binary extractor chạy đúng một lần trích xuất SVG trong process riêng.
// Server gọi binary này qua chiến lược cách ly subprocess: mỗi biến thể một
// process, browser crash không kéo theo server.
//
// Giao thức với process cha: mọi log tiến trình in qua stderr, stdout chỉ
// chứa đúng một dòng report JSON in ra cuối cùng. Exit code 0 khi trích
// xuất thành công, 1 khi thất bại, 2 khi thiếu tham số.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"meta_infographic/internal/pipeline"
	"meta_infographic/internal/render"
)

func main() {
	var (
		input          = flag.String("input", "", "đường dẫn file HTML nguồn")
		output         = flag.String("output", "", "đường dẫn file SVG đích")
		name           = flag.String("name", "variant", "nhãn biến thể dùng trong log")
		viewportWidth  = flag.Int64("viewport-width", 1200, "bề rộng viewport của browser")
		viewportHeight = flag.Int64("viewport-height", 800, "bề cao viewport của browser")
		loadTimeout    = flag.Duration("load-timeout", 30*time.Second, "chờ tài liệu load xong")
		runtimeSettle  = flag.Duration("runtime-settle", 3*time.Second, "chờ ổn định trước lần kiểm tra d3 thứ nhất")
		runtimeRetry   = flag.Duration("runtime-retry", 5*time.Second, "chờ thêm trước lần kiểm tra d3 thứ hai")
		outputTimeout  = flag.Duration("output-timeout", 15*time.Second, "chờ phần tử svg xuất hiện")
		outputPoll     = flag.Duration("output-poll", 500*time.Millisecond, "chu kỳ poll phần tử svg")
		validateSettle = flag.Duration("validate-settle", 2*time.Second, "chờ ổn định trước khi validate nội dung")
		minChildren    = flag.Int("min-children", 5, "ngưỡng children tối thiểu của svg")
	)
	flag.Parse()

	if *input == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Cách dùng: extractor -input <file.html> -output <file.svg> [-name <nhãn>]")
		os.Exit(2)
	}

	gates := pipeline.Gates{
		LoadTimeout:    *loadTimeout,
		RuntimeSettle:  *runtimeSettle,
		RuntimeRetry:   *runtimeRetry,
		OutputTimeout:  *outputTimeout,
		OutputPoll:     *outputPoll,
		ValidateSettle: *validateSettle,
		MinChildren:    *minChildren,
	}
	viewport := render.Viewport{Width: *viewportWidth, Height: *viewportHeight}

	report := extract(*input, *output, *name, viewport, gates)

	if err := pipeline.WriteReport(os.Stdout, report); err != nil {
		fmt.Fprintf(os.Stderr, "[EXTRACTOR] Không ghi được report: %v\n", err)
		os.Exit(1)
	}
	if !report.Success {
		fmt.Fprintf(os.Stderr, "[EXTRACTOR] FAILED: %s\n", report.Message)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "[EXTRACTOR] SUCCESS: %s\n", report.Message)
}

// extract mở browser, chạy trích xuất trọn vẹn rồi trả về report.
// Deadline từng bước do Gates kiểm soát, process cha còn một deadline tổng
// bao ngoài nên ở đây không cần timeout riêng.
func extract(input, output, name string, viewport render.Viewport, gates pipeline.Gates) *pipeline.ExtractionReport {
	ctx := context.Background()

	fmt.Fprintf(os.Stderr, "[EXTRACTOR] Bắt đầu trích xuất %s: %s -> %s\n", name, input, output)

	session, err := render.NewChromeSession(ctx, viewport)
	if err != nil {
		return &pipeline.ExtractionReport{
			Success: false,
			Reason:  pipeline.ReasonIsolationFailure,
			Message: fmt.Sprintf("Browser launch failed for %s: %v", name, err),
		}
	}
	defer session.Close()

	return pipeline.PerformExtraction(ctx, session, gates, pipeline.ExtractionRequest{
		DocumentPath: input,
		OutputPath:   output,
		VariantName:  name,
	})
}
