package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fitcoach/tokenpricing/internal/logging"
	"github.com/fitcoach/tokenpricing/internal/metrics"
	"github.com/fitcoach/tokenpricing/internal/quote"
	"github.com/fitcoach/tokenpricing/internal/rates"
	"github.com/fitcoach/tokenpricing/internal/settings"
	"github.com/fitcoach/tokenpricing/internal/tables"
	"github.com/fitcoach/tokenpricing/internal/transport/grpcapi"
	"github.com/fitcoach/tokenpricing/internal/transport/httpapi"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := settings.MustLoad()

	logger, logCloser, err := logging.New(logging.Options{
		Env:   cfg.Env,
		Level: cfg.Log.Level,
		File: logging.FileOptions{
			Path:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		},
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logCloser.Close()

	logger.WithField("env", cfg.Env).Info("starting token pricing service")
	logger.Debug("debug messages are enabled")

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("service stopped with error")
		os.Exit(1)
	}
	logger.Info("service stopped")
}

func run(cfg settings.Config, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader := tables.NewLoader(cfg.Pricing.File)
	snap, err := loader.Load()
	if err != nil {
		return err
	}

	m := metrics.New()
	svc := quote.New(snap,
		quote.WithLogger(logger.WithField("component", "quote")),
		quote.WithMetrics(m),
		quote.WithStrict(true),
	)
	logger.WithFields(log.Fields{
		"version":  snap.Version,
		"packages": len(snap.Catalog.Packages),
	}).Info("pricing tables loaded")

	if cfg.Pricing.Watch && cfg.Pricing.File != "" {
		w, err := tables.NewWatcher(cfg.Pricing.File, func(string) {
			_ = svc.ReloadFrom(loader)
		}, logger.WithField("component", "watcher"))
		if err != nil {
			return err
		}
		defer w.Close()
		go w.Run(ctx)
		logger.WithField("path", cfg.Pricing.File).Info("watching pricing tables")
	}

	if cfg.Rates.URL != "" {
		src, closeSrc := newRateSource(cfg.Rates, logger)
		defer closeSrc()
		go refreshRates(ctx, svc, src, cfg.Rates, logger)
	}

	httpSrv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      httpapi.NewServer(svc, logger.WithField("component", "http"), cfg.HTTP.RequestTimeout),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", m.Handler())
	metricsSrv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metricsMux}

	gs, hs := grpcapi.NewGRPCServer(svc, logger.WithField("component", "grpc"))
	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 3)
	go func() {
		logger.WithField("address", cfg.HTTP.Addr).Info("starting HTTP server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		logger.WithField("address", cfg.Metrics.Addr).Info("starting Prometheus metrics server")
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		logger.WithField("address", cfg.GRPC.Addr).Info("starting gRPC server")
		if err := gs.Serve(lis); err != nil && !errors.Is(err, net.ErrClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down...")
	case runErr = <-errCh:
		logger.WithError(runErr).Error("server crashed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.GracefulShutdownTimeout)
	defer cancel()

	hs.Shutdown()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("failed to stop HTTP server")
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("failed to stop metrics server")
	}

	stopped := make(chan struct{})
	go func() {
		gs.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		gs.Stop()
	}
	return runErr
}

func newRateSource(cfg settings.Rates, logger *log.Logger) (*rates.Cached, func()) {
	upstream := &rates.HTTPSource{
		URL:    cfg.URL,
		Client: &http.Client{Timeout: cfg.FetchTimeout},
		Retry: rates.RetryConfig{
			Attempts: cfg.Retry.Attempts,
			Delay:    cfg.Retry.Delay,
			MaxDelay: cfg.Retry.MaxDelay,
		},
	}

	var (
		cache   rates.Cache = rates.NewInMemoryCache()
		closeFn             = func() {}
	)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cache = rates.NewRedisCache(client, cfg.Redis.Key, 0)
		closeFn = func() { _ = client.Close() }
		logger.WithField("address", cfg.Redis.Addr).Info("caching exchange rates in redis")
	}
	return rates.NewCached(upstream, cache, cfg.CacheTTL, logger.WithField("component", "rates")), closeFn
}

func refreshRates(ctx context.Context, svc *quote.Service, src rates.Source, cfg settings.Rates, logger *log.Logger) {
	refresh := func() {
		fctx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout*time.Duration(max(cfg.Retry.Attempts, 1)))
		defer cancel()
		if err := svc.RefreshRates(fctx, src); err != nil {
			logger.WithError(err).Warn("exchange rate refresh failed")
		}
	}

	refresh()
	ticker := time.NewTicker(cfg.RefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refresh()
		}
	}
}
