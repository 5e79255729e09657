package model

import (
	"fmt"
	"strings"
	"time"
)

// AnalysisRequest 单次分析请求，构造后不再修改
type AnalysisRequest struct {
	StockSelection string
	Date           time.Time
}

// NewAnalysisRequest 构造分析请求。
// dateStr 为 YYYY-MM-DD 格式，留空则使用当天日期。
func NewAnalysisRequest(stockSelection, dateStr string) (*AnalysisRequest, error) {
	symbol := strings.TrimSpace(stockSelection)
	if symbol == "" {
		return nil, fmt.Errorf("stock_selection must not be empty")
	}

	date := time.Now()
	if dateStr != "" {
		parsed, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q (expect YYYY-MM-DD): %w", dateStr, err)
		}
		date = parsed
	}

	return &AnalysisRequest{
		StockSelection: symbol,
		Date:           date,
	}, nil
}

// CrewDate 返回传给分析引擎的日期格式 MM/DD/YYYY
func (r *AnalysisRequest) CrewDate() string {
	return r.Date.Format("01/02/2006")
}

// Filename 返回确定性的报告文件名 {symbol}_{YYYYMMDD}_analysis.md
func (r *AnalysisRequest) Filename() string {
	return fmt.Sprintf("%s_%s_analysis.md", r.StockSelection, r.Date.Format("20060102"))
}

// AnalysisReport 一次请求产出的报告。
// Raw 为 Markdown 原文，HTML 与 FilePath 为按需派生的结果。
type AnalysisReport struct {
	Raw      string
	HTML     string
	FilePath string
}
