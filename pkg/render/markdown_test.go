package render

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	html, err := ToHTML("# AAPL Analysis\n\nThe stock appears **undervalued**.")
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}
	if !strings.Contains(html, "<h1>AAPL Analysis</h1>") {
		t.Errorf("html missing heading: %q", html)
	}
	if !strings.Contains(html, "<strong>undervalued</strong>") {
		t.Errorf("html missing bold text: %q", html)
	}
}

func TestToHTML_Table(t *testing.T) {
	// GFM 表格也要能渲染
	src := "| Ratio | Value |\n| --- | --- |\n| P/E | 28.5 |\n"
	html, err := ToHTML(src)
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("html missing table: %q", html)
	}
}

func TestToHTML_Empty(t *testing.T) {
	html, err := ToHTML("")
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}
	if strings.TrimSpace(html) != "" {
		t.Errorf("empty markdown should render to empty html, got %q", html)
	}
}
