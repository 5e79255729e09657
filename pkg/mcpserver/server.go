package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/iWorld-y/value_radar/pkg/logger"
	"github.com/iWorld-y/value_radar/pkg/service"
)

const (
	serverName    = "Financial Analysis MCP Server"
	serverVersion = "1.0.0"
)

// NewServer 创建 MCP 服务并注册分析工具
func NewServer(svc *service.Service) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s.AddTool(analyzeStockTool(), handleAnalyzeStock(svc))
	s.AddTool(analyzeStockWithHTMLTool(), handleAnalyzeStockWithHTML(svc))

	return s
}

func analyzeStockTool() mcp.Tool {
	return mcp.NewTool("analyze_stock",
		mcp.WithDescription("Run a multi-agent financial analysis of a stock and return a Markdown report with a financial health assessment and an intrinsic value estimate."),
		mcp.WithString("stock_selection",
			mcp.Required(),
			mcp.Description("Stock ticker symbol to analyze, e.g. AAPL"),
		),
		mcp.WithString("date_analysis",
			mcp.Description("Analysis date in YYYY-MM-DD format; defaults to today"),
		),
		mcp.WithBoolean("save_to_file",
			mcp.Description("Also write the Markdown report to disk"),
		),
		mcp.WithString("output_dir",
			mcp.Description("Directory for the report file when save_to_file is set"),
		),
	)
}

func analyzeStockWithHTMLTool() mcp.Tool {
	return mcp.NewTool("analyze_stock_with_html",
		mcp.WithDescription("Run a multi-agent financial analysis of a stock and return the report rendered as HTML."),
		mcp.WithString("stock_selection",
			mcp.Required(),
			mcp.Description("Stock ticker symbol to analyze, e.g. AAPL"),
		),
		mcp.WithString("date_analysis",
			mcp.Description("Analysis date in YYYY-MM-DD format; defaults to today"),
		),
	)
}

func handleAnalyzeStock(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stockSelection, err := request.RequireString("stock_selection")
		if err != nil || stockSelection == "" {
			return mcp.NewToolResultError("stock_selection parameter is required"), nil
		}

		opts := service.Options{
			SaveToFile: request.GetBool("save_to_file", false),
			OutputDir:  request.GetString("output_dir", ""),
		}

		report, err := svc.Analyze(ctx, stockSelection, request.GetString("date_analysis", ""), opts)
		if err != nil {
			logger.Log.Errorf("analyze_stock 失败 [%s]: %v", stockSelection, err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(report.Raw), nil
	}
}

func handleAnalyzeStockWithHTML(svc *service.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stockSelection, err := request.RequireString("stock_selection")
		if err != nil || stockSelection == "" {
			return mcp.NewToolResultError("stock_selection parameter is required"), nil
		}

		report, err := svc.Analyze(ctx, stockSelection, request.GetString("date_analysis", ""), service.Options{
			RenderHTML: true,
		})
		if err != nil {
			logger.Log.Errorf("analyze_stock_with_html 失败 [%s]: %v", stockSelection, err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(report.HTML), nil
	}
}
