// @title CloudNotes API
// @version 1.0
// @description 云端笔记与文件管理服务
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:3000
// @BasePath /
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/weiwangfds/cloudnotes/config"
	"github.com/weiwangfds/cloudnotes/internal/database"
	"github.com/weiwangfds/cloudnotes/internal/logger"
	"github.com/weiwangfds/cloudnotes/internal/router"
	"github.com/weiwangfds/cloudnotes/internal/service/identity"
	"github.com/weiwangfds/cloudnotes/internal/service/storage"
	"github.com/weiwangfds/cloudnotes/internal/service/telemetry"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(cfg.Log); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	ctx := context.Background()

	// 初始化托管身份服务客户端
	identityProvider, err := identity.NewCognitoProvider(ctx, cfg.AWS, cfg.Cognito)
	if err != nil {
		log.Fatalf("Failed to initialize identity provider: %v", err)
	}

	// 初始化对象存储客户端
	storageProvider, err := storage.NewProvider(ctx, cfg.Storage, cfg.AWS)
	if err != nil {
		log.Fatalf("Failed to initialize storage provider: %v", err)
	}
	if err := storageProvider.TestConnection(ctx); err != nil {
		logger.Warnf("对象存储连通性检查失败: %v", err)
	}

	// 初始化遥测服务
	var sink telemetry.Sink
	if cfg.Telemetry.Enabled {
		cwSink, err := telemetry.NewCloudWatchSink(ctx, cfg.AWS, cfg.Telemetry.AppName)
		if err != nil {
			logger.Warnf("遥测服务初始化失败，已降级为空实现: %v", err)
			sink = telemetry.NewNoopSink()
		} else {
			sink = cwSink
		}
	} else {
		sink = telemetry.NewNoopSink()
	}

	// 初始化路由
	r := router.NewRouter(db, identityProvider, storageProvider, sink)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      r.GetEngine(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// 启动HTTP服务器
	go func() {
		logger.Infof("HTTP服务器启动在端口 %d", cfg.Server.Port)
		sink.Metric(ctx, telemetry.MetricApplicationStart, 1, telemetry.UnitCount,
			map[string]string{"Environment": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("正在关闭服务器...")
	sink.Log(ctx, map[string]interface{}{
		"event": "application_shutdown",
	})

	// 优雅关闭服务器
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("HTTP服务器强制关闭:", err)
	}

	logger.Info("服务器已退出")
}
