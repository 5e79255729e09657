package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iWorld-y/value_radar/pkg/crew"
	"github.com/iWorld-y/value_radar/pkg/logger"
	"github.com/iWorld-y/value_radar/pkg/model"
	"github.com/iWorld-y/value_radar/pkg/render"
	"github.com/iWorld-y/value_radar/pkg/storage"
)

// Options 单次分析的输出选项
type Options struct {
	RenderHTML bool
	SaveToFile bool
	OutputDir  string
}

// Service 所有入口（HTTP / MCP）共享的分析服务：
// 解析日期 -> 调用 Runner -> 按需渲染 HTML / 落盘 / 入库
type Service struct {
	runner           crew.Runner
	store            *storage.Storage // 可为 nil
	defaultOutputDir string
}

// New 创建分析服务。store 传 nil 表示不启用数据库
func New(runner crew.Runner, store *storage.Storage, defaultOutputDir string) *Service {
	if defaultOutputDir == "" {
		defaultOutputDir = "./data"
	}
	return &Service{
		runner:           runner,
		store:            store,
		defaultOutputDir: defaultOutputDir,
	}
}

// Store 返回底层存储（未启用时为 nil）
func (s *Service) Store() *storage.Storage {
	return s.store
}

// Analyze 执行一次完整的分析请求。
// dateAnalysis 为 YYYY-MM-DD，留空则取当天。
// 任何阶段出错都只返回错误，不产生部分结果，也不写文件。
func (s *Service) Analyze(ctx context.Context, stockSelection, dateAnalysis string, opts Options) (*model.AnalysisReport, error) {
	req, err := model.NewAnalysisRequest(stockSelection, dateAnalysis)
	if err != nil {
		return nil, wrapErr(err)
	}

	logger.Log.Infof("🚀 开始分析: %s (%s)", req.StockSelection, req.CrewDate())

	raw, err := s.runner.RunFinancialAnalysis(ctx, req.StockSelection, req.CrewDate())
	if err != nil {
		logger.Log.Errorf("❌ 分析失败 [%s]: %v", req.StockSelection, err)
		return nil, wrapErr(err)
	}

	logger.Log.Infof("✅ 分析完成: %s", req.StockSelection)

	report := &model.AnalysisReport{Raw: raw}

	// 入库失败只记录日志，不影响请求结果
	if s.store != nil {
		if err := s.store.SaveRun(req.StockSelection, req.CrewDate(), raw); err != nil {
			logger.Log.Errorf("保存分析记录失败 [%s]: %v", req.StockSelection, err)
		}
	}

	if opts.SaveToFile {
		path, err := s.saveReport(req, raw, opts.OutputDir)
		if err != nil {
			return nil, wrapErr(err)
		}
		report.FilePath = path
		logger.Log.Infof("💾 报告已保存: %s", path)
	}

	if opts.RenderHTML {
		html, err := render.ToHTML(raw)
		if err != nil {
			return nil, wrapErr(err)
		}
		report.HTML = html
	}

	return report, nil
}

// saveReport 将报告原文写入 {dir}/{symbol}_{YYYYMMDD}_analysis.md，
// 目录不存在则创建，文件已存在则覆盖。
func (s *Service) saveReport(req *model.AnalysisRequest, raw string, dir string) (string, error) {
	if dir == "" {
		dir = s.defaultOutputDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir failed: %w", err)
	}

	path := filepath.Join(dir, req.Filename())
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		return "", fmt.Errorf("write report failed: %w", err)
	}
	return path, nil
}

func wrapErr(err error) error {
	return fmt.Errorf("error occurred during analysis: %w", err)
}
