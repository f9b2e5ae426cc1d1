package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mileusna/crontab"
	"github.com/xy2yp/Artify/internal/cron"
	v1 "github.com/xy2yp/Artify/internal/infrastructure/http/v1"
	"github.com/xy2yp/Artify/internal/infrastructure/http/v1/handler"
	"github.com/xy2yp/Artify/internal/promptapi"
	"github.com/xy2yp/Artify/internal/promptcache"
	"github.com/xy2yp/Artify/internal/repository/entrystore"
	"github.com/xy2yp/Artify/internal/slicer"
	"github.com/xy2yp/Artify/internal/usecase"
	"github.com/xy2yp/Artify/pkg/config"
	"github.com/xy2yp/Artify/pkg/http_server"
	"github.com/xy2yp/Artify/pkg/logger"
	"github.com/xy2yp/Artify/pkg/telemetry"
)

func Run(cfg *config.Config) {
	l := logger.NewZapLogger(cfg.Logger)

	l.Info("starting artify workbench", "port", cfg.HTTP.Server.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithLogger(ctx, l)

	// Initialize OpenTelemetry if enabled
	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err := telemetry.InitTracer(telemetry.Config{
			ServiceName:    cfg.Telemetry.ServiceName,
			ServiceVersion: cfg.Telemetry.ServiceVersion,
			Environment:    cfg.Telemetry.Environment,
			OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		}, l)
		if err != nil {
			l.Fatal("failed to initialize telemetry", "error", err)
		}
		defer func() {
			if err := shutdownTelemetry(context.Background()); err != nil {
				l.Error("failed to shutdown telemetry", "error", err)
			}
		}()
		l.Info("telemetry initialized", "service", cfg.Telemetry.ServiceName)
	}

	// Persistent store, falling back to memory when the backend is down
	store := newStore(cfg, l)
	if closer, ok := store.(io.Closer); ok {
		defer closer.Close()
	}

	cache := promptcache.New(store, cfg.Cache.TTL, l)

	client := promptapi.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, cfg.Upstream.Token, l)

	promptUseCase := usecase.NewPromptUseCase(client, cache, l)

	var archiver slicer.Archiver
	if cfg.Slicer.ArchiveEnabled {
		archiver = slicer.ZipArchiver{}
	}
	exporter := slicer.NewExporter(cfg.Slicer.ExportDir, cfg.Slicer.DownloadDelay, l)
	sliceUseCase := usecase.NewSliceUseCase(archiver, exporter, l)

	// Initialize the HTTP handler
	validate := validator.New()
	h := handler.NewHandler(validate, promptUseCase, sliceUseCase)
	router := v1.NewRouter(h, l, cfg.Telemetry.Enabled)

	server := http_server.NewServer(cfg.HTTP.Server, router)

	// Warm the cache: once now, then on the configured schedule
	if cfg.Cache.PreloadOnStart {
		promptUseCase.Preload()
	}

	ctab := crontab.New()
	cronService := cron.NewService(promptUseCase, l)
	cronService.Start(ctx, ctab, cfg.Cache.WarmSchedule)

	// Start server
	go func() {
		l.Info("starting http server", "port", cfg.HTTP.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal("failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Fatal("server forced to shutdown", "error", err)
	}

	l.Info("server stopped")
}

// newStore builds the configured persistent store. Store init failure is
// not fatal; the cache degrades to memory-plus-network.
func newStore(cfg *config.Config, l logger.Logger) entrystore.Store {
	switch cfg.Store.Driver {
	case "sqlite":
		s, err := entrystore.NewSQLiteStore(cfg.Store.SQLite.Path, l)
		if err != nil {
			l.Error("sqlite store unavailable, falling back to memory store",
				"path", cfg.Store.SQLite.Path, "error", err)
			return entrystore.NewMemoryStore()
		}
		return s
	case "redis":
		s, err := entrystore.NewRedisStore(entrystore.RedisConfig{
			Addr:     cfg.Store.Redis.Addr,
			Password: cfg.Store.Redis.Password,
			DB:       cfg.Store.Redis.DB,
			TTL:      cfg.Store.Redis.TTL,
		})
		if err != nil {
			l.Error("redis store unavailable, falling back to memory store",
				"addr", cfg.Store.Redis.Addr, "error", err)
			return entrystore.NewMemoryStore()
		}
		l.Info("redis store initialized", "addr", cfg.Store.Redis.Addr)
		return s
	case "memory":
		l.Info("memory store selected")
		return entrystore.NewMemoryStore()
	default:
		l.Warn("unknown store driver, using memory store", "driver", cfg.Store.Driver)
		return entrystore.NewMemoryStore()
	}
}
