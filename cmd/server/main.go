package main

import (
	"flag"
	stdlog "log"
	"os"

	"github.com/go-kratos/kratos/v2"

	"github.com/iWorld-y/value_radar/pkg/config"
	"github.com/iWorld-y/value_radar/pkg/crew"
	"github.com/iWorld-y/value_radar/pkg/logger"
	"github.com/iWorld-y/value_radar/pkg/server"
	"github.com/iWorld-y/value_radar/pkg/service"
	"github.com/iWorld-y/value_radar/pkg/storage"
)

// go build -ldflags "-X main.Version=x.y.z"
var (
	// Name 是服务的名称
	Name string = "value_radar"
	// Version 是服务的版本号
	Version string
	// flagconf 是配置文件的路径命令行参数
	flagconf string

	id, _ = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.yaml", "config path, eg: -conf config.yaml")
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
	logger.Log.Info("启动股票分析服务...")

	// 数据库可选：连接失败只降级，不阻塞启动
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
	httpSrv := server.NewHTTPServer(cfg.Server, svc)

	app := kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Server(httpSrv),
	)

	logger.Log.Infof("HTTP 服务监听于 %s", cfg.Server.Addr)
	if err := app.Run(); err != nil {
		logger.Log.Fatalf("服务退出: %v", err)
	}
}
