package main

import (
	"flag"
	stdlog "log"
	"os"

	mcpsrv "github.com/mark3labs/mcp-go/server"

	"github.com/iWorld-y/value_radar/pkg/config"
	"github.com/iWorld-y/value_radar/pkg/crew"
	"github.com/iWorld-y/value_radar/pkg/logger"
	"github.com/iWorld-y/value_radar/pkg/mcpserver"
	"github.com/iWorld-y/value_radar/pkg/service"
	"github.com/iWorld-y/value_radar/pkg/storage"
)

var (
	flagconf  string
	transport string
	sseAddr   string
)

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
	flag.StringVar(&transport, "transport", "stdio", "mcp transport: stdio or sse")
	flag.StringVar(&sseAddr, "sse-addr", ":8001", "listen address when transport is sse")
}

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig(flagconf)
	if err != nil {
		stdlog.Fatalf("无法加载配置文件: %v", err)
	}
	if err := cfg.ValidateCredentials(); err != nil {
		stdlog.Fatalf("%v", err)
	}

	if err := logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		stdlog.Fatalf("无法初始化日志: %v", err)
	}
	if transport == "stdio" {
		// stdio 模式下 stdout 是协议通道，日志必须走 stderr
		logger.Log.SetOutput(os.Stderr)
	}

	var store *storage.Storage
	if cfg.DB.Host != "" {
		store, err = storage.NewStorage(cfg.DB)
		if err != nil {
			logger.Log.Warnf("数据库不可用，分析历史功能停用: %v", err)
			store = nil
		} else {
			defer store.Close()
		}
	}

	svc := service.New(crew.NewRunner(cfg), store, cfg.Output.Dir)
	s := mcpserver.NewServer(svc)

	switch transport {
	case "stdio":
		if err := mcpsrv.ServeStdio(s); err != nil {
			logger.Log.Fatalf("MCP stdio 服务退出: %v", err)
		}
	case "sse":
		logger.Log.Infof("MCP SSE 服务监听于 %s", sseAddr)
		if err := mcpsrv.NewSSEServer(s).Start(sseAddr); err != nil {
			logger.Log.Fatalf("MCP SSE 服务退出: %v", err)
		}
	default:
		stdlog.Fatalf("未知 transport: %s (支持 stdio / sse)", transport)
	}
}
