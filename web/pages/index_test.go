package pages

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
)

func TestIndexRendersParameters(t *testing.T) {
	var buf bytes.Buffer
	err := Index(IndexData{BaseURL: "http://example.com", MaxWidth: 5000}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"errorCorrectionLevel",
		"pixelStyle",
		"http://example.com/api/generate?data=https://example.com&amp;pixelStyle=dots",
		"Widths above 5000 are clamped",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("index page is missing %q", want)
		}
	}
}

func TestIndexEscapesBaseURL(t *testing.T) {
	var buf bytes.Buffer
	err := Index(IndexData{BaseURL: `http://"><script>x</script>`, MaxWidth: 5000}).Render(context.Background(), &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "<script>") {
		t.Fatalf("base URL was not escaped")
	}
}

var classAttr = regexp.MustCompile(`<(th|td) class="([^"]*)">([^<]*)<`)

func TestCellOverridesReplaceBaseClasses(t *testing.T) {
	var buf bytes.Buffer
	if err := Index(IndexData{BaseURL: "http://example.com", MaxWidth: 5000}).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}

	classes := map[string]string{}
	for _, m := range classAttr.FindAllStringSubmatch(buf.String(), -1) {
		classes[m[3]] = m[2]
	}

	tests := []struct {
		cell    string
		has     []string
		missing []string
	}{
		{"Parameter", []string{"font-medium", "text-gray-900", "px-3"}, []string{"text-gray-700", "font-normal"}},
		{"width", []string{"font-mono", "text-gray-900", "text-sm"}, []string{"text-gray-700"}},
		{"1000", []string{"text-gray-500"}, []string{"text-gray-700"}},
		{"L, M, Q or H.", []string{"text-gray-700", "font-normal"}, nil},
	}
	for _, test := range tests {
		got, ok := classes[test.cell]
		if !ok {
			t.Fatalf("cell %q not found", test.cell)
		}
		fields := " " + got + " "
		for _, c := range test.has {
			if !strings.Contains(fields, " "+c+" ") {
				t.Errorf("cell %q: class %q missing from %q", test.cell, c, got)
			}
		}
		for _, c := range test.missing {
			if strings.Contains(fields, " "+c+" ") {
				t.Errorf("cell %q: class %q should be overridden in %q", test.cell, c, got)
			}
		}
	}
}

func TestCellClass(t *testing.T) {
	if got := cellClass(""); strings.Join(strings.Fields(got), " ") != cellBase {
		t.Fatalf("empty override changed the base: %q", got)
	}
}
