// Package pipeline - Test máy trạng thái gate của worker trích xuất
// với session giả lập theo kịch bản.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"meta_infographic/internal/render"
)

// fakeSession mô phỏng một browser session theo kịch bản dựng sẵn.
// Các slice kết quả trả về theo lượt gọi, phần tử cuối lặp lại mãi.
type fakeSession struct {
	loadErr      error
	loadedURL    string
	runtime      []bool
	runtimeCalls int
	inspects     []render.OutputInfo
	inspectCalls int
	serialized   string
	serializeErr error
	closed       bool
}

func (s *fakeSession) Load(ctx context.Context, url string) error {
	s.loadedURL = url
	return s.loadErr
}

func (s *fakeSession) RuntimeAvailable(ctx context.Context) (bool, error) {
	s.runtimeCalls++
	if len(s.runtime) == 0 {
		return true, nil
	}
	idx := s.runtimeCalls - 1
	if idx >= len(s.runtime) {
		idx = len(s.runtime) - 1
	}
	return s.runtime[idx], nil
}

func (s *fakeSession) Inspect(ctx context.Context) (*render.OutputInfo, error) {
	s.inspectCalls++
	if len(s.inspects) == 0 {
		return &render.OutputInfo{}, nil
	}
	idx := s.inspectCalls - 1
	if idx >= len(s.inspects) {
		idx = len(s.inspects) - 1
	}
	info := s.inspects[idx]
	return &info, nil
}

func (s *fakeSession) Serialize(ctx context.Context) (string, error) {
	return s.serialized, s.serializeErr
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

// fastGates trả về bộ ngưỡng thu nhỏ để test chạy trong vài chục ms
func fastGates() Gates {
	return Gates{
		LoadTimeout:    100 * time.Millisecond,
		RuntimeSettle:  time.Millisecond,
		RuntimeRetry:   time.Millisecond,
		OutputTimeout:  25 * time.Millisecond,
		OutputPoll:     time.Millisecond,
		ValidateSettle: time.Millisecond,
		MinChildren:    5,
	}
}

func validSVGSession() *fakeSession {
	return &fakeSession{
		runtime:    []bool{true},
		inspects:   []render.OutputInfo{{Found: true, Children: 8, TextElements: 3, Width: 1200, Height: 800}},
		serialized: `<svg xmlns="http://www.w3.org/2000/svg"><rect/><rect/><rect/><rect/><rect/></svg>`,
	}
}

func TestRunGatesSuccess(t *testing.T) {
	session := validSVGSession()
	extraction, fail := RunGates(context.Background(), session, fastGates(), "file:///tmp/variant_1/infographic.html")

	if fail != nil {
		t.Fatalf("mọi gate đều phải qua, nhận failure: %s (%s)", fail.Message, fail.Reason)
	}
	if extraction.Content != session.serialized {
		t.Errorf("Content phải là output của Serialize, nhận được %q", extraction.Content)
	}
	if extraction.Info.Children != 8 || extraction.Info.TextElements != 3 {
		t.Errorf("Info phải lấy từ lần validate cuối: %+v", extraction.Info)
	}
	if session.loadedURL != "file:///tmp/variant_1/infographic.html" {
		t.Errorf("Load phải nhận đúng URL, nhận được %q", session.loadedURL)
	}
}

func TestRunGatesRuntimeRetryRecovers(t *testing.T) {
	session := validSVGSession()
	session.runtime = []bool{false, true}

	_, fail := RunGates(context.Background(), session, fastGates(), "file:///x.html")
	if fail != nil {
		t.Fatalf("d3 xuất hiện ở lần kiểm tra thứ hai thì phải qua gate, nhận: %s", fail.Message)
	}
	if session.runtimeCalls != 2 {
		t.Errorf("phải kiểm tra d3 đúng 2 lần, đã gọi %d lần", session.runtimeCalls)
	}
}

func TestRunGatesRuntimeUnavailable(t *testing.T) {
	session := validSVGSession()
	session.runtime = []bool{false}

	_, fail := RunGates(context.Background(), session, fastGates(), "file:///x.html")
	if fail == nil {
		t.Fatal("d3 vắng mặt cả hai lần thì gate phải trượt")
	}
	if fail.Reason != ReasonRuntimeUnavailable {
		t.Errorf("Reason = %s, muốn %s", fail.Reason, ReasonRuntimeUnavailable)
	}
	if fail.Message != "D3.js failed to load" {
		t.Errorf("Message = %q, muốn %q", fail.Message, "D3.js failed to load")
	}
	if session.runtimeCalls != 2 {
		t.Errorf("chỉ được kiểm tra d3 đúng 2 lần, đã gọi %d lần", session.runtimeCalls)
	}
}

func TestRunGatesLoadTimeout(t *testing.T) {
	session := validSVGSession()
	session.loadErr = fmt.Errorf("failed to load document: %w", context.DeadlineExceeded)

	_, fail := RunGates(context.Background(), session, fastGates(), "file:///x.html")
	if fail == nil {
		t.Fatal("load quá hạn thì gate phải trượt")
	}
	if fail.Reason != ReasonLoadTimeout {
		t.Errorf("Reason = %s, muốn %s", fail.Reason, ReasonLoadTimeout)
	}
}

func TestRunGatesLoadOtherError(t *testing.T) {
	session := validSVGSession()
	session.loadErr = errors.New("browser crashed")

	_, fail := RunGates(context.Background(), session, fastGates(), "file:///x.html")
	if fail == nil {
		t.Fatal("load lỗi thì gate phải trượt")
	}
	if fail.Reason != ReasonIsolationFailure {
		t.Errorf("lỗi load không phải timeout phải map sang %s, nhận %s", ReasonIsolationFailure, fail.Reason)
	}
}

func TestRunGatesOutputMissing(t *testing.T) {
	session := validSVGSession()
	session.inspects = []render.OutputInfo{{Found: false}}

	_, fail := RunGates(context.Background(), session, fastGates(), "file:///x.html")
	if fail == nil {
		t.Fatal("svg không xuất hiện thì gate phải trượt")
	}
	if fail.Reason != ReasonOutputMissing {
		t.Errorf("Reason = %s, muốn %s", fail.Reason, ReasonOutputMissing)
	}
	if session.inspectCalls < 2 {
		t.Errorf("phải poll Inspect nhiều lần trước khi bỏ cuộc, chỉ gọi %d lần", session.inspectCalls)
	}
}

func TestRunGatesOutputAppearsAfterPolling(t *testing.T) {
	session := validSVGSession()
	session.inspects = []render.OutputInfo{
		{Found: false},
		{Found: false},
		{Found: true, Children: 6, TextElements: 2},
	}

	extraction, fail := RunGates(context.Background(), session, fastGates(), "file:///x.html")
	if fail != nil {
		t.Fatalf("svg xuất hiện trong hạn thì phải qua gate, nhận: %s", fail.Message)
	}
	if extraction.Info.Children != 6 {
		t.Errorf("Info phải là kết quả validate sau khi svg xuất hiện: %+v", extraction.Info)
	}
}

func TestRunGatesChildrenBoundary(t *testing.T) {
	// Ngưỡng MinChildren = 5: 4 children là thiếu, đúng 5 là đủ
	t.Run("4 children trượt", func(t *testing.T) {
		session := validSVGSession()
		session.inspects = []render.OutputInfo{{Found: true, Children: 4, TextElements: 1}}

		_, fail := RunGates(context.Background(), session, fastGates(), "file:///x.html")
		if fail == nil {
			t.Fatal("4 children phải trượt gate validate")
		}
		if fail.Reason != ReasonInsufficientContent {
			t.Errorf("Reason = %s, muốn %s", fail.Reason, ReasonInsufficientContent)
		}
		if fail.Message != "Invalid SVG content" {
			t.Errorf("Message = %q, muốn %q", fail.Message, "Invalid SVG content")
		}
	})

	t.Run("5 children qua", func(t *testing.T) {
		session := validSVGSession()
		session.inspects = []render.OutputInfo{{Found: true, Children: 5, TextElements: 1}}

		_, fail := RunGates(context.Background(), session, fastGates(), "file:///x.html")
		if fail != nil {
			t.Fatalf("đúng ngưỡng 5 children phải qua gate, nhận: %s", fail.Message)
		}
	})
}

func TestRunGatesSerializeEmpty(t *testing.T) {
	session := validSVGSession()
	session.serialized = ""

	_, fail := RunGates(context.Background(), session, fastGates(), "file:///x.html")
	if fail == nil {
		t.Fatal("serialize rỗng thì gate phải trượt")
	}
	if fail.Reason != ReasonExtractionEmpty {
		t.Errorf("Reason = %s, muốn %s", fail.Reason, ReasonExtractionEmpty)
	}
	if fail.Message != "Failed to extract SVG" {
		t.Errorf("Message = %q, muốn %q", fail.Message, "Failed to extract SVG")
	}
}

func TestRunGatesCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, fail := RunGates(ctx, validSVGSession(), fastGates(), "file:///x.html")
	if fail == nil {
		t.Fatal("context đã hủy thì phải trượt ngay ở bước chờ đầu tiên")
	}
	if fail.Reason != ReasonTimeout {
		t.Errorf("Reason = %s, muốn %s", fail.Reason, ReasonTimeout)
	}
}
