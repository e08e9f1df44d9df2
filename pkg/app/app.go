// Package app 提供应用程序的初始化和启动功能.
package app

import (
	contextPkg "context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/assetvault/pkg/configs"
	"github.com/yeisme/assetvault/pkg/internal/jobs"
	"github.com/yeisme/assetvault/pkg/internal/model"
	"github.com/yeisme/assetvault/pkg/internal/router"
	"github.com/yeisme/assetvault/pkg/internal/storage"
	"github.com/yeisme/assetvault/pkg/log"
	"github.com/yeisme/assetvault/pkg/metrics"
	"github.com/yeisme/assetvault/pkg/middleware"
	"github.com/yeisme/assetvault/pkg/scheduler"
	"github.com/yeisme/assetvault/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Engine    *gin.Engine
	config    *configs.AppConfig
	manager   *storage.Manager
	scheduler *scheduler.Scheduler
}

func NewApp(configPath string) *App {
	ctx := contextPkg.Background()
	engine := gin.New()

	// 初始化配置
	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	config := configs.GetConfig()
	if !config.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化追踪
	if err := tracing.InitTracer(config.Tracing); err != nil {
		fmt.Printf("Error initializing tracing: %v\n", err)
		os.Exit(1)
	}

	// 初始化监控
	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	// 建表/迁移
	if err := manager.GetDBClient().Migrate(&model.ImageAsset{}); err != nil {
		fmt.Printf("Error migrating database: %v\n", err)
		os.Exit(1)
	}

	// 定时任务: 回收站清理与孤儿对象扫描
	sched, err := scheduler.NewScheduler()
	if err != nil {
		fmt.Printf("Error creating scheduler: %v\n", err)
		os.Exit(1)
	}

	if err := jobs.RegisterCronJobs(sched, manager); err != nil {
		fmt.Printf("Error registering cron jobs: %v\n", err)
		os.Exit(1)
	}

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine.Use(
		gin.Recovery(),
		middleware.GinLoggerMiddleware(),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.CORSMiddleware(config.Server),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.StorageMiddleware(manager),
		middleware.SchedulerMiddleware(sched),
	)

	if config.RateLimit.Enabled {
		engine.Use(middleware.RateLimitMiddleware(config.RateLimit))
	}

	if config.CircuitBreaker.Enabled {
		engine.Use(middleware.CircuitBreakerMiddleware(config.CircuitBreaker))
	}

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	apiGroup := engine.Group("/api/v1")
	router.RegisterAPIRoutes(apiGroup)
	router.RegisterHealthCheckRoute(engine.Group(""))

	return &App{
		Engine:    engine,
		config:    config,
		manager:   manager,
		scheduler: sched,
	}
}

// Run 启动 HTTP 服务并在收到退出信号时优雅关闭.
func (a *App) Run() error {
	a.scheduler.Start()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port),
		Handler:           a.Engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Logger().Info().Str("addr", srv.Addr).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Logger().Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := contextPkg.WithTimeout(contextPkg.Background(), shutdownTimeout)
	defer cancel()

	if err := a.scheduler.Stop(); err != nil {
		log.Logger().Warn().Err(err).Msg("stop scheduler")
	}

	if mqc := a.manager.GetMQClient(); mqc != nil {
		if err := mqc.Close(); err != nil {
			log.Logger().Warn().Err(err).Msg("close mq client")
		}
	}

	if err := tracing.ShutdownTracer(ctx); err != nil {
		log.Logger().Warn().Err(err).Msg("shutdown tracer")
	}

	return srv.Shutdown(ctx)
}
