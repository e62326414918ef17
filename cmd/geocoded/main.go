// geocoded serves geocoding over HTTP, backed by a configured dispatcher
// with caching, fallback ordering and optional DataDog metrics publishing.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tilebound/geomux/internal/config"
	"github.com/tilebound/geomux/internal/metrics"
	"github.com/tilebound/geomux/internal/metrics/datadog"
	"github.com/tilebound/geomux/pkg/geomux"
)

const shutdownGrace = 10 * time.Second

type server struct {
	dispatcher *geomux.Dispatcher
	tracker    *metrics.Tracker
	started    time.Time
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/geocode", s.geocode)
	r.GET("/attempts", s.listAttempts)
	r.DELETE("/attempts", s.flushAttempts)
	r.GET("/stats", s.stats)
	r.GET("/healthz", s.healthz)

	return r
}

func (s *server) geocode(ctx *gin.Context) {
	query := ctx.Query("q")
	if query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "q query parameter is required"})

		return
	}

	switch mode := ctx.DefaultQuery("mode", "one"); mode {
	case "one":
		result := s.dispatcher.ResolveOne(ctx.Request.Context(), query)
		if result == nil {
			ctx.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no provider resolved %q", query)})

			return
		}

		ctx.JSON(http.StatusOK, result)
	case "all":
		results := s.dispatcher.ResolveAll(ctx.Request.Context(), query)
		if len(results) == 0 {
			ctx.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no provider resolved %q", query)})

			return
		}

		ctx.JSON(http.StatusOK, results)
	default:
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid mode %q, must be one or all", mode)})
	}
}

func (s *server) listAttempts(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, s.dispatcher.Log())
}

func (s *server) flushAttempts(ctx *gin.Context) {
	s.dispatcher.Flush()
	ctx.JSON(http.StatusOK, gin.H{"flushed": true})
}

func (s *server) stats(ctx *gin.Context) {
	snapshot := s.tracker.Snapshot()

	ctx.JSON(http.StatusOK, gin.H{
		"dispatch":      snapshot,
		"cacheHitRatio": snapshot.CacheHitRatio(),
		"resolveRatio":  snapshot.ResolveRatio(),
		"cacheEntries":  s.dispatcher.CacheEntryCount(),
		"providers":     s.dispatcher.Providers(),
		"uptime":        time.Since(s.started).String(),
	})
}

func (s *server) healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func run(cfg *config.Config, addr string, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracker := metrics.NewTracker()

	d, err := geomux.NewFromConfig(ctx, cfg, geomux.WithMetrics(tracker))
	if err != nil {
		return fmt.Errorf("building dispatcher: %w", err)
	}
	defer d.Close()

	if cfg.Metrics.Enabled {
		publisher, err := datadog.NewPublisher(&cfg.Metrics.DataDog, logger)
		if err != nil {
			return fmt.Errorf("building metrics publisher: %w", err)
		}
		defer publisher.Close()

		background := metrics.NewTrackerPublisher(tracker, publisher, cfg.Metrics.PublishInterval, logger)
		background.Start(ctx)
		defer background.Stop()
	}

	s := &server{dispatcher: d, tracker: tracker, started: time.Now()}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("Listening", "addr", addr, "providers", d.Providers())

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down", "grace", shutdownGrace)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	configPath := flag.String("config", "", "path to JSON config file")
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "geocoded: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel(cfg.Logging.Level)}))
	slog.SetDefault(logger)

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg, *addr, logger); err != nil {
		logger.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
