package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alpha-radar/internal/bot"
	"alpha-radar/internal/cache"
	"alpha-radar/internal/config"
	"alpha-radar/internal/db"
	"alpha-radar/internal/fallback"
	"alpha-radar/internal/handler"
	"alpha-radar/internal/job"
	"alpha-radar/internal/provider"
	"alpha-radar/internal/repository"
	"alpha-radar/internal/service"
	"alpha-radar/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "alpha-radar/docs"
)

var (
	loadEnvFunc           = godotenv.Load
	loadConfigFunc        = config.Load
	initPostgresFunc      = db.InitPostgres
	initRedisFunc         = cache.InitRedis
	initTracerFunc        = tracing.InitTracer
	newKlineRepoFunc      = repository.NewKlineRepository
	newMarketProviderFunc = func(tracer trace.Tracer, cfg *config.Config) (service.SnapshotProvider, service.HistoryProvider) {
		p := provider.NewBinanceProvider(tracer, cfg.BinanceBaseURL,
			time.Duration(cfg.SnapshotTimeoutSecs)*time.Second,
			time.Duration(cfg.KlineTimeoutSecs)*time.Second)
		return p, p
	}
	newRefreshServiceFunc = service.NewRefreshService
	newRefreshPollerFunc  = job.NewRefreshPoller
	startPollerFunc       = func(p *job.RefreshPoller, ctx context.Context) { go p.Start(ctx) }
	startTelegramBotFunc  = bot.StartTelegramBot
	newHandlerFunc        = handler.New
	newRouterFunc         = gin.Default
	setupSignalNotify     = signal.Notify
	waitForSignalFunc     = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc   = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Alpha Radar API
// @version         1.0
// @description     Campaign token monitoring service with volume burst detection.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg, err := loadConfigFunc()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Kline storage is optional; without a pool the board still works,
	// only the /api/klines endpoint is unavailable.
	klineRepo := newKlineRepoFunc(db.Pool, tracer)
	var klineStore service.KlineStore
	var klineReader handler.KlineReader
	if db.Pool != nil {
		if err := klineRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		klineStore = klineRepo
		klineReader = klineRepo
	}

	var boardCache service.RedisClient
	if cache.Client != nil {
		boardCache = cache.Client
	}

	snapshots, history := newMarketProviderFunc(tracer, cfg)
	cacheTTL := time.Duration(cfg.RefreshPollSecs) * time.Second * 3 / 2
	refreshService := newRefreshServiceFunc(tracer, cfg.Registry, snapshots, history,
		fallback.NewGenerator(0), klineStore, boardCache,
		cfg.TrailingWindowDays, cfg.BurstThreshold, cacheTTL)

	// Background refresh keeps the cache warm, stopped by ctx cancel
	poller := newRefreshPollerFunc(tracer, refreshService, cfg.RefreshPollSecs)
	startPollerFunc(poller, ctx)

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(refreshService)

	// Create handlers and routes
	h := newHandlerFunc(tracer, refreshService, klineReader)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("alpha-radar"))

	h.RegisterRoutes(r, cfg.APIKey)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
