package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	specpkg "github.com/abdouthematrix/westcairostars/api"
	"github.com/abdouthematrix/westcairostars/internal/aggregate"
	"github.com/abdouthematrix/westcairostars/internal/api"
	"github.com/abdouthematrix/westcairostars/internal/auth"
	"github.com/abdouthematrix/westcairostars/internal/config"
	"github.com/abdouthematrix/westcairostars/internal/database"
	"github.com/abdouthematrix/westcairostars/internal/directory"
	"github.com/abdouthematrix/westcairostars/internal/leaderboard"
	"github.com/abdouthematrix/westcairostars/internal/period"
	"github.com/abdouthematrix/westcairostars/internal/score"
	"github.com/abdouthematrix/westcairostars/internal/sweeper"
	"github.com/abdouthematrix/westcairostars/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.LogLevel)

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("invalid timezone", "error", err)
		os.Exit(1)
	}

	db, err := database.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(reg)

	var store score.Store = score.NewPostgresStore(db.Pool())
	if cfg.StoreRateLimit > 0 {
		store = score.NewRateLimitedStore(store, rate.Limit(cfg.StoreRateLimit), cfg.StoreRateBurst)
	}
	scoreCache := score.NewCache(store, score.WithTTL(cfg.ScoreCacheTTL), score.WithMetrics(metrics))
	writer := score.NewWriter(store, scoreCache, metrics)

	dirCache := directory.NewCache(directory.NewRepository(db.Pool()), cfg.DirectoryCacheTTL, metrics)
	if err := dirCache.Refresh(context.Background()); err != nil {
		slog.Warn("initial directory load failed; will retry on demand", "error", err)
	}

	agg := aggregate.New(scoreCache,
		aggregate.WithFanout(cfg.FanoutLimit),
		aggregate.WithPartitionTimeout(cfg.PartitionTimeout),
		aggregate.WithMetrics(metrics),
	)
	boards := leaderboard.NewService(dirCache, agg, leaderboard.NewBuilder(cfg.LeaderboardLimit), cfg.MaxRangeDays, metrics)

	authService := auth.NewService(auth.NewRepository(db.Pool()), cfg.BcryptCost)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sw := sweeper.New(scoreCache, dirCache, cfg.SweepInterval)
	go sw.Start(ctx)

	router := api.NewRouter(api.RouterDeps{
		DBPinger:       db,
		Version:        cfg.Version,
		OpenAPISpec:    specpkg.OpenAPISpec,
		Metrics:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Leaderboards:   boards,
		Periods:        period.NewResolver(loc),
		Scores:         scoreCache,
		Writer:         writer,
		Directory:      dirCache,
		ScoreCache:     scoreCache,
		DirectoryCache: dirCache,
		Auth:           authService,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting West Cairo Stars server", "port", cfg.Port, "version", cfg.Version, "timezone", cfg.Timezone)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutting down server", "signal", sig.String())
	case err := <-serverErr:
		slog.Error("server error", "error", err)
		cancel()
		db.Close()
		os.Exit(1)
	}

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

func setupLogger(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}
