package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"portfolio/internal/app"
	"portfolio/internal/bootstrap"
	"portfolio/internal/config"
	"portfolio/internal/server"
	"portfolio/internal/util"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, closeLogs := util.InitLogger(cfg.LogLevel, "portfolio", cfg.LogsDir)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("portfolio server failed", "err", err)
	}
	closeLogs()
	if err != nil {
		os.Exit(1)
	}
}

// run serves until ctx is done. Backends opened along the way are closed
// before it returns.
func run(ctx context.Context, cfg config.FileConfig, logger *slog.Logger) error {
	stores, err := bootstrap.OpenStores(cfg)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer stores.Close()

	responseCache, err := bootstrap.OpenCache(cfg)
	if err != nil {
		return fmt.Errorf("init cache: %w", err)
	}
	defer closeAll(responseCache)
	media, err := bootstrap.OpenMedia(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init media storage: %w", err)
	}
	defer closeAll(media)
	limiter, err := bootstrap.OpenLimiter(cfg)
	if err != nil {
		return fmt.Errorf("init rate limiter: %w", err)
	}
	defer closeAll(limiter)

	proxies, err := util.NewTrustedProxies(cfg.TrustedProxyCIDRs)
	if err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}

	appCore, err := app.New(app.Config{
		Store:          stores.Store,
		Media:          media,
		MediaURL:       cfg.MediaURL,
		PersonalInfoID: cfg.PersonalInfoID,
	})
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	checks := map[string]server.HealthCheck{"cache": responseCache.Ping}
	if stores.DB != nil {
		checks["database"] = stores.DB.Ping
	}
	httpServer, err := server.New(server.Config{
		App:     appCore,
		Cache:   responseCache,
		PageTTL: time.Duration(cfg.PageCacheSeconds) * time.Second,
		APITTL:  time.Duration(cfg.APICacheSeconds) * time.Second,
		Site: server.Site{
			Header:     cfg.Site.Header,
			Title:      cfg.Site.Title,
			IndexTitle: cfg.Site.IndexTitle,
		},
		Debug:   cfg.Debug,
		Hosts:   cfg.AllowedHosts,
		Limiter: limiter,
		Proxies: proxies,
		Checks:  checks,
	})
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}

	if cfg.Debug {
		go func() {
			if err := bootstrap.WatchContent(ctx, cfg, stores, responseCache); err != nil {
				logger.Warn("content watch stopped", "err", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpServer.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "err", err)
		}
	}()

	logger.Info("portfolio server listening", "addr", addr, "debug", cfg.Debug)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	<-shutdownDone
	logger.Info("portfolio server stopped")
	return nil
}

// closeAll releases backends that hold connections.
func closeAll(resources ...any) {
	for _, r := range resources {
		if c, ok := r.(io.Closer); ok {
			if err := c.Close(); err != nil {
				slog.Warn("close failed", "err", err)
			}
		}
	}
}
