package server

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/value_radar/pkg/config"
	"github.com/iWorld-y/value_radar/pkg/service"
)

// NewHTTPServer 创建 HTTP 服务并注册路由
func NewHTTPServer(cfg config.ServerConfig, svc *service.Service) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if cfg.Addr != "" {
		opts = append(opts, http.Address(cfg.Addr))
	}
	if cfg.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Timeout); err == nil {
			opts = append(opts, http.Timeout(d))
		}
	}

	srv := http.NewServer(opts...)
	srv.HandleFunc("/", handleHealth)
	srv.HandleFunc("/analyze", handleAnalyze(svc))
	srv.HandleFunc("/reports", handleReports(svc))
	return srv
}

// analyzeRequest POST /analyze 请求体。
// 历史上出现过 date 与 date_analysis 两种字段名，这里同时接受
func analyzeRequestDate(req *analyzeRequest) string {
	if req.Date != "" {
		return req.Date
	}
	return req.DateAnalysis
}

type analyzeRequest struct {
	StockSelection string `json:"stock_selection"`
	Date           string `json:"date"`
	DateAnalysis   string `json:"date_analysis"`
}

func handleHealth(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, nethttp.StatusNotFound, map[string]string{"detail": "not found"})
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "API is running"})
}

func handleAnalyze(svc *service.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		switch r.Method {
		case nethttp.MethodPost:
			analyzePost(svc, w, r)
		case nethttp.MethodGet:
			analyzeGet(svc, w, r)
		default:
			writeJSON(w, nethttp.StatusMethodNotAllowed, map[string]string{"detail": "method not allowed"})
		}
	}
}

// analyzePost JSON 入参，返回 Markdown 原文
func analyzePost(svc *service.Service, w nethttp.ResponseWriter, r *nethttp.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, nethttp.StatusBadRequest, map[string]string{"detail": "invalid request body: " + err.Error()})
		return
	}

	report, err := svc.Analyze(r.Context(), req.StockSelection, analyzeRequestDate(&req), service.Options{})
	if err != nil {
		writeJSON(w, nethttp.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}

	writeJSON(w, nethttp.StatusOK, map[string]string{"analysis_result": report.Raw})
}

// analyzeGet 查询参数入参，返回 HTML，并在服务端落盘 Markdown 文件
func analyzeGet(svc *service.Service, w nethttp.ResponseWriter, r *nethttp.Request) {
	q := r.URL.Query()
	stockSelection := q.Get("stock_selection")
	if stockSelection == "" {
		writeJSON(w, nethttp.StatusBadRequest, map[string]string{"detail": "stock_selection is required"})
		return
	}

	report, err := svc.Analyze(r.Context(), stockSelection, q.Get("date_analysis"), service.Options{
		RenderHTML: true,
		SaveToFile: true,
	})
	if err != nil {
		writeJSON(w, nethttp.StatusInternalServerError, map[string]string{"detail": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(nethttp.StatusOK)
	w.Write([]byte(report.HTML))
}

// handleReports 列出数据库中的分析历史，未启用数据库时返回 503
func handleReports(svc *service.Service) nethttp.HandlerFunc {
	return func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			writeJSON(w, nethttp.StatusMethodNotAllowed, map[string]string{"detail": "method not allowed"})
			return
		}

		store := svc.Store()
		if store == nil {
			writeJSON(w, nethttp.StatusServiceUnavailable, map[string]string{"detail": "database not configured"})
			return
		}

		runs, err := store.ListRuns(20)
		if err != nil {
			writeJSON(w, nethttp.StatusInternalServerError, map[string]string{"detail": err.Error()})
			return
		}
		writeJSON(w, nethttp.StatusOK, map[string]any{"reports": runs})
	}
}

func writeJSON(w nethttp.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
