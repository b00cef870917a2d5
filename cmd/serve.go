package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/seo-optimizer/inspector/analyzer"
	"github.com/seo-optimizer/inspector/api"
	"github.com/seo-optimizer/inspector/keywords"
	"github.com/seo-optimizer/inspector/logging"
	"github.com/seo-optimizer/inspector/metrics"
	"github.com/seo-optimizer/inspector/middleware"
	"github.com/seo-optimizer/inspector/session"
	"github.com/seo-optimizer/inspector/stats"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Minute
	retainMonths    = 12
)

func serveCommand() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := newDeps()
			if err != nil {
				return err
			}
			defer func() { _ = d.logger.Sync() }()
			if port != "" {
				d.cfg.Port = port
			}
			return serve(cmd.Context(), d)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func serve(ctx context.Context, d *deps) error {
	gin.SetMode(d.cfg.GinMode)
	logger := d.logger

	m := metrics.New()

	storage, err := stats.NewStorage(d.cfg.DataDir, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize statistics storage: %w", err)
	}
	requests, err := stats.NewRequestStats(d.cfg.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize request statistics: %w", err)
	}

	svc := analyzer.NewService(d.fetcher, analyzer.Options{
		Logger:  logger,
		Metrics: m,
		Stats:   storage,
		Prober:  d.prober,
	})
	kw := keywords.NewEngine(d.fetcher, keywords.Options{
		Logger:  logger,
		Metrics: m,
		Stats:   storage,
	})
	limiter := middleware.NewRateLimiter(d.cfg.RateLimit, d.cfg.RateBurst)

	srv := api.New(api.Deps{
		Analyzer: svc,
		Keywords: kw,
		Session:  session.New(d.fetcher, svc, kw, logger),
		Requests: requests,
		Storage:  storage,
		Metrics:  m,
		Limiter:  limiter,
		Logger:   logger,
		DevMode:  d.cfg.DevMode,
	})

	httpServer := &http.Server{
		Addr:              ":" + d.cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go janitor(ctx, limiter, storage)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			logging.String("addr", "http://localhost:"+d.cfg.Port),
			logging.String("fetch_backend", d.cfg.FetchBackend),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", logging.Err(err))
	}

	if err := requests.Save(); err != nil {
		logger.Error("failed to save request statistics", logging.Err(err))
	}
	return svc.Shutdown()
}

// janitor evicts idle rate limiter entries and prunes old monthly statistics
// until ctx is done.
func janitor(ctx context.Context, limiter *middleware.RateLimiter, storage *stats.Storage) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	lastMonth := ""
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Cleanup()
			if month := time.Now().Format("2006-01"); month != lastMonth {
				storage.Cleanup(retainMonths)
				lastMonth = month
			}
		}
	}
}
