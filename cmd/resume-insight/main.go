package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	hertzzerolog "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"

	"resume-insight-go/internal/api/handler"
	"resume-insight-go/internal/api/router"
	"resume-insight-go/internal/config"
	"resume-insight-go/internal/logger"
	"resume-insight-go/internal/processor"
	"resume-insight-go/internal/storage"
	"resume-insight-go/internal/tracing"
)

func main() {
	var configPath string
	pflag.StringVar(&configPath, "config", "", "配置文件路径，留空时在常见位置查找")
	pflag.Parse()

	// 1. 加载配置文件
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置文件失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志系统
	initLogger(cfg)

	// 3. 初始化链路追踪
	ctx := context.Background()
	shutdownTracing, err := tracing.InitTracerProvider(ctx, &cfg.Tracing)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化链路追踪失败")
	}

	// 4. 初始化存储管理器
	storageManager, err := storage.NewStorage(ctx, cfg, logger.Logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化存储管理器失败")
	}
	defer storageManager.Close()

	// 5. 初始化业务处理器
	resumeHandler, err := initializeHandler(ctx, cfg, storageManager)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化简历处理器失败")
	}
	logger.Info().Msg("简历处理器初始化成功")

	// 6. 启动简历上传消费者，每个worker持有独立的消费通道
	for i := 0; i < cfg.RabbitMQ.ConsumerWorkers; i++ {
		if err := resumeHandler.StartResumeUploadConsumer(context.Background()); err != nil {
			logger.Fatal().Err(err).Int("worker", i).Msg("启动简历上传消费者失败")
		}
	}

	// 7. 创建HTTP服务器
	serverOpts := []hertzconfig.Option{
		server.WithHostPorts(cfg.Server.Address),
	}
	var tracerCfg *hertztracing.Config
	if cfg.Tracing.Enabled {
		tracer, tCfg := hertztracing.NewServerTracer()
		tracerCfg = tCfg
		serverOpts = append(serverOpts, tracer)
	}
	h := server.Default(serverOpts...)
	if tracerCfg != nil {
		h.Use(hertztracing.ServerMiddleware(tracerCfg))
	}

	// 8. 注册路由
	router.RegisterRoutes(h, cfg, resumeHandler)

	// 9. 启动HTTP服务器
	go func() {
		if err := h.Run(); err != nil {
			logger.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()
	logger.Info().Str("address", cfg.Server.Address).Msg("HTTP服务器已启动")

	// 10. 等待终止信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("接收到终止信号，正在优雅退出...")

	// 11. 优雅关闭
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("关闭链路追踪失败")
	}

	logger.Info().Msg("优雅退出完成")
}

// 初始化日志系统
func initLogger(cfg *config.Config) {
	logConfig := logger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	}
	logger.Init(logConfig)

	logger.Logger = logger.Logger.With().
		Str("app", "resume-insight").
		Logger()

	// Hertz自身的日志也走zerolog
	hlog.SetLogger(hertzzerolog.From(logger.Logger))
}

func initializeHandler(ctx context.Context, cfg *config.Config, storageManager *storage.Storage) (*handler.ResumeHandler, error) {
	if storageManager == nil {
		return nil, fmt.Errorf("存储管理器未初始化")
	}
	if storageManager.MinIO == nil {
		return nil, fmt.Errorf("MinIO实例未初始化")
	}
	if storageManager.RabbitMQ == nil {
		return nil, fmt.Errorf("RabbitMQ实例未初始化")
	}
	if storageManager.MySQL == nil {
		return nil, fmt.Errorf("MySQL实例未初始化")
	}

	processorModule, err := processor.NewProcessorFromConfig(ctx, cfg, storageManager)
	if err != nil {
		return nil, fmt.Errorf("创建处理器失败: %w", err)
	}

	return handler.NewResumeHandler(cfg, storageManager, processorModule), nil
}
