package crew

import (
	"context"

	"github.com/iWorld-y/value_radar/pkg/config"
)

// Runner 分析执行入口的窄接口，方便替换底层 agent 框架或在测试中打桩
type Runner interface {
	RunFinancialAnalysis(ctx context.Context, stockSelection, date string) (string, error)
}

// CrewRunner 基于 eino crew 的默认实现
type CrewRunner struct {
	cfg *config.Config
}

// NewRunner 创建 CrewRunner
func NewRunner(cfg *config.Config) *CrewRunner {
	return &CrewRunner{cfg: cfg}
}

var _ Runner = (*CrewRunner)(nil)

// RunFinancialAnalysis 每次调用都构建全新的 crew 并同步执行，
// 返回报告 Markdown 原文；底层错误原样向上传递。
func (r *CrewRunner) RunFinancialAnalysis(ctx context.Context, stockSelection, date string) (string, error) {
	c, err := NewCrew(ctx, r.cfg, stockSelection, date)
	if err != nil {
		return "", err
	}
	return c.Kickoff(ctx)
}
