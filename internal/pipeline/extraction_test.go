// Package pipeline - Test trích xuất một biến thể trọn vẹn và codec report
// của giao thức extractor subprocess.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPerformExtractionWritesNormalizedFile(t *testing.T) {
	dir := t.TempDir()
	session := validSVGSession()
	req := ExtractionRequest{
		DocumentPath: filepath.Join(dir, "infographic.html"),
		OutputPath:   filepath.Join(dir, "infographic.svg"),
		VariantName:  "variant_1",
	}

	report := PerformExtraction(context.Background(), session, fastGates(), req)

	if !report.Success {
		t.Fatalf("trích xuất phải thành công, nhận: %s (%s)", report.Message, report.Reason)
	}

	wantContent := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" + session.serialized
	data, err := os.ReadFile(req.OutputPath)
	if err != nil {
		t.Fatalf("file SVG phải được ghi ra đĩa: %v", err)
	}
	if string(data) != wantContent {
		t.Errorf("nội dung file sai:\nnhận: %q\nmuốn: %q", string(data), wantContent)
	}
	if report.FileSize != int64(len(wantContent)) {
		t.Errorf("FileSize = %d, muốn %d", report.FileSize, len(wantContent))
	}
	if want := fmt.Sprintf("Success: %d bytes", len(wantContent)); report.Message != want {
		t.Errorf("Message = %q, muốn %q", report.Message, want)
	}
	if report.Children != 8 || report.TextElements != 3 {
		t.Errorf("report phải mang thông tin validate: %+v", report)
	}
}

func TestPerformExtractionGateFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	session := validSVGSession()
	session.runtime = []bool{false}
	req := ExtractionRequest{
		DocumentPath: filepath.Join(dir, "infographic.html"),
		OutputPath:   filepath.Join(dir, "infographic.svg"),
		VariantName:  "variant_1",
	}

	report := PerformExtraction(context.Background(), session, fastGates(), req)

	if report.Success {
		t.Fatal("gate trượt thì report phải thất bại")
	}
	if report.Reason != ReasonRuntimeUnavailable {
		t.Errorf("Reason = %s, muốn %s", report.Reason, ReasonRuntimeUnavailable)
	}
	if _, err := os.Stat(req.OutputPath); !os.IsNotExist(err) {
		t.Errorf("không được ghi file SVG khi gate trượt, stat err = %v", err)
	}
}

func TestReportRoundTrip(t *testing.T) {
	report := &ExtractionReport{
		Success:      true,
		Message:      "Success: 4321 bytes",
		FileSize:     4321,
		Children:     9,
		TextElements: 4,
	}

	var buf bytes.Buffer
	if err := WriteReport(&buf, report); err != nil {
		t.Fatalf("WriteReport lỗi: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != 1 {
		t.Errorf("report phải là đúng một dòng, có %d newline", got)
	}

	parsed, ok := parseReport(buf.Bytes())
	if !ok {
		t.Fatal("parseReport phải đọc được output của WriteReport")
	}
	if *parsed != *report {
		t.Errorf("round trip sai:\nnhận: %+v\nmuốn: %+v", parsed, report)
	}
}

func TestParseReportSkipsNoise(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("[EXTRACTOR] dòng log lạc vào stdout\n")
	buf.WriteString("không phải json\n")
	if err := WriteReport(&buf, &ExtractionReport{Success: false, Reason: ReasonInsufficientContent, Message: "Invalid SVG content"}); err != nil {
		t.Fatalf("WriteReport lỗi: %v", err)
	}

	parsed, ok := parseReport(buf.Bytes())
	if !ok {
		t.Fatal("parseReport phải bỏ qua các dòng không phải report")
	}
	if parsed.Reason != ReasonInsufficientContent {
		t.Errorf("Reason = %s, muốn %s", parsed.Reason, ReasonInsufficientContent)
	}
}

func TestParseReportPicksLastLine(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteReport(&buf, &ExtractionReport{Success: false, Reason: ReasonTimeout, Message: "cũ"}); err != nil {
		t.Fatalf("WriteReport lỗi: %v", err)
	}
	if err := WriteReport(&buf, &ExtractionReport{Success: true, Message: "Success: 10 bytes", FileSize: 10}); err != nil {
		t.Fatalf("WriteReport lỗi: %v", err)
	}

	parsed, ok := parseReport(buf.Bytes())
	if !ok {
		t.Fatal("parseReport phải đọc được report")
	}
	if !parsed.Success {
		t.Errorf("phải lấy report cuối cùng, nhận: %+v", parsed)
	}
}

func TestParseReportGarbage(t *testing.T) {
	if _, ok := parseReport([]byte("toàn log\nkhông có json\n")); ok {
		t.Error("stdout không có report thì parseReport phải trả về false")
	}
	if _, ok := parseReport(nil); ok {
		t.Error("stdout rỗng thì parseReport phải trả về false")
	}
}

func TestFileURL(t *testing.T) {
	got := FileURL("/tmp/batch/variant_1/infographic.html")
	if got != "file:///tmp/batch/variant_1/infographic.html" {
		t.Errorf("FileURL = %q không đúng", got)
	}
	if !strings.HasPrefix(FileURL("relative/path.html"), "file:///") {
		t.Errorf("đường dẫn tương đối phải được đổi thành tuyệt đối: %q", FileURL("relative/path.html"))
	}
}
