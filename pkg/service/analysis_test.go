package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// stubRunner 记录收到的参数并返回预设结果
type stubRunner struct {
	gotStock string
	gotDate  string
	result   string
	err      error
	calls    int
}

func (s *stubRunner) RunFinancialAnalysis(ctx context.Context, stockSelection, date string) (string, error) {
	s.calls++
	s.gotStock = stockSelection
	s.gotDate = date
	return s.result, s.err
}

func TestAnalyze_DateFormatting(t *testing.T) {
	runner := &stubRunner{result: "# report"}
	svc := New(runner, nil, t.TempDir())

	report, err := svc.Analyze(context.Background(), "AAPL", "2024-10-05", Options{})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if runner.gotDate != "10/05/2024" {
		t.Errorf("runner received date %q, want %q", runner.gotDate, "10/05/2024")
	}
	if runner.gotStock != "AAPL" {
		t.Errorf("runner received stock %q", runner.gotStock)
	}
	if report.Raw != "# report" {
		t.Errorf("report.Raw = %q", report.Raw)
	}
}

func TestAnalyze_DefaultDate(t *testing.T) {
	runner := &stubRunner{result: "r"}
	svc := New(runner, nil, t.TempDir())

	if _, err := svc.Analyze(context.Background(), "MSFT", "", Options{}); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	want := time.Now().Format("01/02/2006")
	if runner.gotDate != want {
		t.Errorf("runner received date %q, want today %q", runner.gotDate, want)
	}
}

func TestAnalyze_InvalidDate(t *testing.T) {
	runner := &stubRunner{result: "r"}
	svc := New(runner, nil, t.TempDir())

	_, err := svc.Analyze(context.Background(), "AAPL", "10/05/2024", Options{})
	if err == nil {
		t.Fatal("Analyze() with malformed date should fail")
	}
	if runner.calls != 0 {
		t.Error("runner should not be called on invalid input")
	}
	if !strings.Contains(err.Error(), "error occurred during analysis") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestAnalyze_SaveToFile(t *testing.T) {
	dir := t.TempDir()
	runner := &stubRunner{result: "# AAPL health score: 8/10"}
	svc := New(runner, nil, dir)

	report, err := svc.Analyze(context.Background(), "AAPL", "2024-10-05", Options{SaveToFile: true})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	want := filepath.Join(dir, "AAPL_20241005_analysis.md")
	if report.FilePath != want {
		t.Errorf("FilePath = %q, want %q", report.FilePath, want)
	}

	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("report file not written: %v", err)
	}
	if string(data) != runner.result {
		t.Errorf("file content = %q, want %q", data, runner.result)
	}
}

func TestAnalyze_SaveToFile_Overwrite(t *testing.T) {
	dir := t.TempDir()
	runner := &stubRunner{result: "first version"}
	svc := New(runner, nil, dir)

	if _, err := svc.Analyze(context.Background(), "AAPL", "2024-10-05", Options{SaveToFile: true}); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	runner.result = "second version"
	if _, err := svc.Analyze(context.Background(), "AAPL", "2024-10-05", Options{SaveToFile: true}); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "AAPL_20241005_analysis.md"))
	if err != nil {
		t.Fatal(err)
	}
	// 覆盖而非追加
	if string(data) != "second version" {
		t.Errorf("file content = %q, want overwrite", data)
	}
}

func TestAnalyze_SaveToFile_ExplicitDir(t *testing.T) {
	base := t.TempDir()
	outDir := filepath.Join(base, "nested", "out")
	runner := &stubRunner{result: "r"}
	svc := New(runner, nil, base)

	report, err := svc.Analyze(context.Background(), "GOOG", "2024-01-15", Options{SaveToFile: true, OutputDir: outDir})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !strings.HasPrefix(report.FilePath, outDir) {
		t.Errorf("FilePath = %q, want under %q", report.FilePath, outDir)
	}
	if _, err := os.Stat(report.FilePath); err != nil {
		t.Errorf("file should exist in explicit dir: %v", err)
	}
}

func TestAnalyze_RunnerError(t *testing.T) {
	dir := t.TempDir()
	runner := &stubRunner{err: errors.New("upstream model exploded")}
	svc := New(runner, nil, dir)

	_, err := svc.Analyze(context.Background(), "AAPL", "2024-10-05", Options{SaveToFile: true})
	if err == nil {
		t.Fatal("Analyze() should propagate runner error")
	}
	// 错误信息必须携带原始错误文本
	if !strings.Contains(err.Error(), "upstream model exploded") {
		t.Errorf("error %q missing original message", err.Error())
	}
	if !strings.Contains(err.Error(), "error occurred during analysis") {
		t.Errorf("error %q missing generic prefix", err.Error())
	}

	// 失败时不应写任何文件
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("no file should be written on failure, found %d entries", len(entries))
	}
}

func TestAnalyze_RenderHTML(t *testing.T) {
	runner := &stubRunner{result: "# Verdict\n\nundervalued"}
	svc := New(runner, nil, t.TempDir())

	report, err := svc.Analyze(context.Background(), "AAPL", "2024-10-05", Options{RenderHTML: true})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !strings.Contains(report.HTML, "<h1>Verdict</h1>") {
		t.Errorf("HTML = %q", report.HTML)
	}
	if report.Raw != runner.result {
		t.Errorf("Raw should stay untouched, got %q", report.Raw)
	}
}

func TestAnalyze_EmptySymbol(t *testing.T) {
	runner := &stubRunner{result: "r"}
	svc := New(runner, nil, t.TempDir())

	if _, err := svc.Analyze(context.Background(), "", "", Options{}); err == nil {
		t.Fatal("Analyze() with empty symbol should fail")
	}
	if runner.calls != 0 {
		t.Error("runner should not be called for empty symbol")
	}
}
