// Package pipeline - Test chuẩn hóa nội dung SVG standalone.
package pipeline

import (
	"strings"
	"testing"
)

func TestNormalizeBareSVG(t *testing.T) {
	got := Normalize(`<svg width="100"><rect/></svg>`)

	want := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		`<svg xmlns="http://www.w3.org/2000/svg" width="100"><rect/></svg>`
	if got != want {
		t.Errorf("Normalize sai:\nnhận: %q\nmuốn: %q", got, want)
	}
}

func TestNormalizeKeepsExistingNamespace(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg"><rect/></svg>`
	got := Normalize(in)

	if strings.Count(got, `xmlns="http://www.w3.org/2000/svg"`) != 1 {
		t.Errorf("không được gắn xmlns lần hai: %q", got)
	}
	if !strings.HasPrefix(got, "<?xml") {
		t.Errorf("vẫn phải thêm khai báo XML: %q", got)
	}
}

func TestNormalizeKeepsExistingDeclaration(t *testing.T) {
	in := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<svg><circle/></svg>"
	got := Normalize(in)

	if strings.Count(got, "<?xml") != 1 {
		t.Errorf("không được thêm khai báo XML lần hai: %q", got)
	}
	if !strings.Contains(got, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Errorf("vẫn phải gắn xmlns vào thẻ svg: %q", got)
	}
}

func TestNormalizeCollapsesDuplicateDeclarations(t *testing.T) {
	in := "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n" +
		`<svg><rect/></svg>`
	got := Normalize(in)

	if strings.Count(got, "<?xml") != 1 {
		t.Errorf("khai báo XML bị lặp phải được gộp về một: %q", got)
	}
	if !strings.HasPrefix(got, "<?xml") {
		t.Errorf("khai báo XML phải nằm ở đầu: %q", got)
	}
}

func TestNormalizeCollapsesDuplicateNamespace(t *testing.T) {
	in := `<svg xmlns="http://www.w3.org/2000/svg" xmlns="http://www.w3.org/2000/svg" width="9"><rect/></svg>`
	got := Normalize(in)

	if strings.Count(got, `xmlns="http://www.w3.org/2000/svg"`) != 1 {
		t.Errorf("xmlns bị lặp phải được gộp về một: %q", got)
	}
	if !strings.Contains(got, `width="9"`) {
		t.Errorf("các attribute khác phải giữ nguyên: %q", got)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		`<svg><rect/></svg>`,
		`<svg xmlns="http://www.w3.org/2000/svg"><rect/></svg>`,
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<svg><rect/></svg>",
		"<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<svg xmlns=\"http://www.w3.org/2000/svg\" xmlns=\"http://www.w3.org/2000/svg\"><rect/></svg>",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize phải idempotent với input %q:\nlần 1: %q\nlần 2: %q", in, once, twice)
		}
	}
}

func TestNormalizeOnlyFirstSVGTag(t *testing.T) {
	in := `<svg><g><svg class="nested"></svg></g></svg>`
	got := Normalize(in)

	if strings.Count(got, `xmlns="http://www.w3.org/2000/svg"`) != 1 {
		t.Errorf("chỉ thẻ svg ngoài cùng được gắn xmlns: %q", got)
	}
	if !strings.Contains(got, `<svg xmlns="http://www.w3.org/2000/svg"><g>`) {
		t.Errorf("xmlns phải nằm ở thẻ svg đầu tiên: %q", got)
	}
}

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Errorf("chuỗi rỗng phải giữ nguyên, nhận được %q", got)
	}
}
