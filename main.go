// @title E-Learning 平台后端 API
// @version 1.0
// @description 在线学习平台的后端服务：课程、内容、报名、学习进度、通知与学习分析。

// @contact.name API支持
// @contact.email support@example.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description 格式：Bearer {token}

package main

import (
	"context"
	"elearning_backend/internal/app"
	"elearning_backend/internal/config"
	"elearning_backend/pkg/logger"
	"flag"
	"log"
)

func main() {
	configDir := flag.String("config", "configs", "config.yaml 所在目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config from %s: %v", *configDir, err)
	}
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if cfg.MigrateOnly {
		application.Close(context.Background())
		logger.Log.Info("Migration finished, exiting")
		return
	}

	application.Run()
}
