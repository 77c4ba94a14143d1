package main

import (
	"context"
	"fmt"
	"log"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"alpha-radar/internal/cache"
	"alpha-radar/internal/config"
	"alpha-radar/internal/db"
	"alpha-radar/internal/fallback"
	"alpha-radar/internal/provider"
	"alpha-radar/internal/repository"
	"alpha-radar/internal/service"
	"alpha-radar/internal/tui"
	"alpha-radar/pkg/tracing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel/trace"
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
	newWishServerFunc     = wish.NewServer
	setupSignalNotify     = ossignal.Notify
	waitForSignalFunc     = func(quit <-chan os.Signal) { <-quit }
)

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

	var klineStore service.KlineStore
	if db.Pool != nil {
		klineRepo := newKlineRepoFunc(db.Pool, tracer)
		if err := klineRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		klineStore = klineRepo
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

	// Build Wish SSH server. Sessions are anonymous: the dashboard is
	// read-only, so there is nothing worth authenticating for.
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.SSHPort)

	srv, err := newWishServerFunc(
		wish.WithAddress(addr),
		wish.WithHostKeyPath(cfg.SSHHostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(func(s ssh.Session) (tea.Model, []tea.ProgramOption) {
				model := tui.NewModel(refreshService)
				pty, _, _ := s.Pty()
				model.SetSize(pty.Window.Width, pty.Window.Height)

				return model, []tea.ProgramOption{tea.WithAltScreen()}
			}),
			logging.Middleware(),
		),
	)
	if err != nil {
		log.Fatalf("failed to create SSH server: %v", err)
	}

	if srv != nil {
		go func() {
			log.Printf("SSH server listening on %s", addr)
			if err := srv.ListenAndServe(); err != nil {
				log.Printf("SSH server stopped: %v", err)
			}
		}()
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down SSH server...")

	cancel()

	if srv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("SSH server shutdown error: %v", err)
		}
	}

	log.Println("SSH server exited")
}
