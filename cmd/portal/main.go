package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thaiturk/portal-go/internal/chat"
	"github.com/thaiturk/portal-go/internal/client"
	"github.com/thaiturk/portal-go/internal/config"
	"github.com/thaiturk/portal-go/internal/handler"
	"github.com/thaiturk/portal-go/internal/imageproc"
	"github.com/thaiturk/portal-go/internal/middleware"
	"github.com/thaiturk/portal-go/internal/poller"
	"github.com/thaiturk/portal-go/internal/service"
	"github.com/thaiturk/portal-go/internal/store"
	"github.com/thaiturk/portal-go/internal/wizard"
	"github.com/thaiturk/portal-go/pkg/logger"
	"github.com/thaiturk/portal-go/pkg/redis"
)

func main() {
	// 加载配置
	configPath := os.Getenv("PORTAL_CONFIG")
	if configPath == "" {
		configPath = "configs/portal.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 初始化日志
	zapLogger, err := logger.NewLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("portal 服务启动中...")

	// 初始化客户端存储
	var clientStore store.Store
	switch cfg.Store.Driver {
	case "redis":
		rdb, err := redis.NewRedisClient(cfg.Redis)
		if err != nil {
			zapLogger.Fatal("初始化 Redis 失败", zap.Error(err))
		}
		defer rdb.Close()
		clientStore = store.NewRedisStore(rdb, cfg.Store.TTL, zapLogger)
	default:
		zapLogger.Warn("使用内存存储，重启后访客状态丢失")
		clientStore = store.NewMemoryStore()
	}

	// 初始化服务
	gateway := client.NewGatewayClient(cfg.Gateway.BaseURL, zapLogger)
	pushService := service.NewPushService(cfg.Server.HeartbeatTick, zapLogger)
	visitorService := service.NewVisitorService(gateway, clientStore, pushService, service.VisitorConfig{
		Chat: chat.Config{
			FAQEnabled:          cfg.Chat.FAQEnabled,
			EscalationThreshold: cfg.Chat.EscalationThreshold,
		},
		Wizard: wizard.Config{
			Poll: poller.Config{
				Interval:    cfg.Wizard.PollInterval,
				MaxAttempts: cfg.Wizard.MaxAttempts,
			},
			Image: imageproc.Options{
				MaxBytes:    cfg.Wizard.MaxUploadBytes,
				MaxEdge:     cfg.Wizard.MaxEdge,
				JPEGQuality: cfg.Wizard.JPEGQuality,
			},
		},
		Idle: cfg.Server.VisitorIdle,
	}, zapLogger)

	// 初始化处理器
	handlers := &handler.Handlers{
		API:       handler.NewAPIHandler(gateway, visitorService, pushService, cfg.Server.Name, zapLogger),
		Chat:      handler.NewChatHandler(visitorService, zapLogger),
		Wizard:    handler.NewWizardHandler(visitorService, cfg.Wizard.MaxUploadBytes, zapLogger),
		Locale:    handler.NewLocaleHandler(visitorService, zapLogger),
		WebSocket: handler.NewWebSocketHandler(visitorService, pushService, cfg.Server.AllowOrigins, zapLogger),
	}

	// 初始化路由
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = cfg.Wizard.MaxUploadBytes + 1<<20
	r.Use(gin.Logger())
	r.Use(middleware.Recovery(zapLogger))
	r.Use(middleware.CORS(cfg.Server.AllowOrigins))
	r.Use(middleware.Visitor(cfg.Server.CookieSecure))
	handlers.Register(r)

	// 启动服务
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("服务启动失败", zap.Error(err))
		}
	}()
	zapLogger.Info("portal 服务启动成功",
		zap.Int("port", cfg.Server.Port),
		zap.String("gateway", cfg.Gateway.BaseURL),
		zap.String("store", cfg.Store.Driver))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("portal 服务关闭中...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("服务关闭失败", zap.Error(err))
	}
	visitorService.Stop()
	pushService.Stop()
	zapLogger.Info("portal 服务已关闭")
}
