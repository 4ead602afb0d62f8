package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"meta_infographic/internal/render"
)

// Gates là bộ ngưỡng thời gian và nội dung mà một tài liệu phải vượt qua
// trước khi SVG của nó được coi là sẵn sàng để trích xuất
type Gates struct {
	LoadTimeout    time.Duration // Chờ tài liệu load xong
	RuntimeSettle  time.Duration // Chờ ổn định trước lần kiểm tra d3 thứ nhất
	RuntimeRetry   time.Duration // Chờ thêm trước lần kiểm tra d3 thứ hai
	OutputTimeout  time.Duration // Chờ phần tử svg xuất hiện trong DOM
	OutputPoll     time.Duration // Chu kỳ poll phần tử svg
	ValidateSettle time.Duration // Chờ ổn định trước khi validate nội dung
	MinChildren    int           // Ngưỡng children tối thiểu của svg
}

// DefaultGates trả về bộ ngưỡng chuẩn của worker trích xuất
func DefaultGates() Gates {
	return Gates{
		LoadTimeout:    30 * time.Second,
		RuntimeSettle:  3 * time.Second,
		RuntimeRetry:   5 * time.Second,
		OutputTimeout:  15 * time.Second,
		OutputPoll:     500 * time.Millisecond,
		ValidateSettle: 2 * time.Second,
		MinChildren:    5,
	}
}

// StepFailure mô tả một gate thất bại, mang nguyên lý do về kết quả slot
type StepFailure struct {
	Reason  FailureReason
	Message string
}

// Error trả về message của failure
func (f *StepFailure) Error() string {
	return f.Message
}

// Extraction là nội dung SVG đã vượt qua mọi gate
type Extraction struct {
	Content string            // outerHTML của svg sau serialize, chưa normalize
	Info    render.OutputInfo // Thông tin svg tại lần validate cuối
}

// RunGates lái một session qua từng gate theo đúng thứ tự của worker:
// load tài liệu, chờ ổn định, kiểm tra d3 tối đa hai lần, đợi svg xuất hiện,
// chờ ổn định lần nữa, validate nội dung rồi serialize. Gate nào trượt thì
// dừng ngay tại đó và trả về StepFailure của gate đó.
func RunGates(ctx context.Context, session render.Session, gates Gates, url string) (*Extraction, *StepFailure) {
	// Gate 1: load tài liệu trong hạn LoadTimeout
	loadCtx, cancel := context.WithTimeout(ctx, gates.LoadTimeout)
	err := session.Load(loadCtx, url)
	cancel()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &StepFailure{Reason: ReasonLoadTimeout, Message: fmt.Sprintf("Error: %v", err)}
		}
		return nil, sessionFailure(err)
	}

	// Gate 2: chờ runtime vẽ ổn định rồi kiểm tra d3.
	// Trượt lần đầu thì đợi thêm RuntimeRetry và kiểm tra lại đúng một lần.
	if fail := sleepCtx(ctx, gates.RuntimeSettle); fail != nil {
		return nil, fail
	}
	available, err := session.RuntimeAvailable(ctx)
	if err != nil {
		return nil, sessionFailure(err)
	}
	if !available {
		if fail := sleepCtx(ctx, gates.RuntimeRetry); fail != nil {
			return nil, fail
		}
		available, err = session.RuntimeAvailable(ctx)
		if err != nil {
			return nil, sessionFailure(err)
		}
	}
	if !available {
		return nil, &StepFailure{Reason: ReasonRuntimeUnavailable, Message: "D3.js failed to load"}
	}

	// Gate 3: poll tới khi svg xuất hiện trong DOM
	if fail := waitOutput(ctx, session, gates); fail != nil {
		return nil, fail
	}

	// Gate 4: chờ render ổn định rồi validate nội dung svg
	if fail := sleepCtx(ctx, gates.ValidateSettle); fail != nil {
		return nil, fail
	}
	info, err := session.Inspect(ctx)
	if err != nil {
		return nil, sessionFailure(err)
	}
	if !info.Found || info.Children < gates.MinChildren {
		return nil, &StepFailure{Reason: ReasonInsufficientContent, Message: "Invalid SVG content"}
	}

	// Gate 5: serialize svg thành chuỗi standalone
	content, err := session.Serialize(ctx)
	if err != nil {
		return nil, sessionFailure(err)
	}
	if content == "" {
		return nil, &StepFailure{Reason: ReasonExtractionEmpty, Message: "Failed to extract SVG"}
	}

	return &Extraction{Content: content, Info: *info}, nil
}

// waitOutput poll Inspect theo chu kỳ OutputPoll cho tới khi svg xuất hiện
// hoặc quá hạn OutputTimeout
func waitOutput(ctx context.Context, session render.Session, gates Gates) *StepFailure {
	deadline := time.Now().Add(gates.OutputTimeout)
	for {
		info, err := session.Inspect(ctx)
		if err != nil {
			return sessionFailure(err)
		}
		if info.Found {
			return nil
		}
		if time.Now().After(deadline) {
			return &StepFailure{
				Reason:  ReasonOutputMissing,
				Message: fmt.Sprintf("Error: no svg element after %s", gates.OutputTimeout),
			}
		}
		if fail := sleepCtx(ctx, gates.OutputPoll); fail != nil {
			return fail
		}
	}
}

// sessionFailure gói lỗi giao tiếp với browser thành failure mức slot
func sessionFailure(err error) *StepFailure {
	return &StepFailure{Reason: ReasonIsolationFailure, Message: fmt.Sprintf("Error: %v", err)}
}

// sleepCtx ngủ d nhưng thoát sớm khi context bị hủy hoặc hết hạn
func sleepCtx(ctx context.Context, d time.Duration) *StepFailure {
	if d <= 0 {
		if err := ctx.Err(); err != nil {
			return contextFailure(err)
		}
		return nil
	}
	select {
	case <-ctx.Done():
		return contextFailure(ctx.Err())
	case <-time.After(d):
		return nil
	}
}

// contextFailure map lỗi của context sang failure mức slot.
// Scheduler sẽ thay message bằng thông báo timeout kèm số giây của attempt.
func contextFailure(err error) *StepFailure {
	if errors.Is(err, context.DeadlineExceeded) {
		return &StepFailure{Reason: ReasonTimeout, Message: "Extraction timeout"}
	}
	return &StepFailure{Reason: ReasonTimeout, Message: fmt.Sprintf("Error: %v", err)}
}
