package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pixelplaza/tradehall/internal/catalog"
	"github.com/pixelplaza/tradehall/internal/config"
	"github.com/pixelplaza/tradehall/internal/domain"
	"github.com/pixelplaza/tradehall/internal/engine"
	"github.com/pixelplaza/tradehall/internal/handler"
	"github.com/pixelplaza/tradehall/internal/service"
	"github.com/pixelplaza/tradehall/internal/store"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Optional .env file for local development.
	_ = godotenv.Load()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Shop catalog: configured file or the embedded default.
	seed, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		logger.Error("failed to load catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("catalog loaded", slog.Int("items", len(seed)))

	// Event sinks: webhook dispatch plus the websocket feed.
	webhookSvc := service.NewWebhookService(store.NewWebhookStore(), cfg.WebhookTimeout)
	hub := handler.NewEventHub(logger)
	sink := service.MultiSink{webhookSvc, hub}

	// Transaction engine.
	eng := service.NewEngine(service.EngineOptions{
		Sink:                sink,
		RequestTTL:          cfg.RequestTTL,
		TradeTTL:            cfg.TradeTTL,
		AuctionDuration:     cfg.AuctionDuration,
		AuctionFeeRate:      cfg.AuctionFeeRate,
		TradeHistoryLimit:   cfg.TradeHistoryLimit,
		ShopHistoryLimit:    cfg.ShopHistoryLimit,
		AuctionHistoryLimit: cfg.AuctionHistoryLimit,
		Catalog:             seed,
	})

	// Expiry sweeper.
	sweeper := engine.NewSweeper(cfg.SweepInterval, eng)
	eng.SetScheduler(sweeper)

	// Router.
	router := handler.NewRouter(eng, webhookSvc, hub, logger)

	// Start the sweeper with a cancellable context.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, cancel context (stops the sweeper).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
}

// loadCatalog reads the catalog file at path, or the embedded default
// when path is empty.
func loadCatalog(path string) ([]domain.ShopItem, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}
