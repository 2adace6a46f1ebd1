package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rivergate/proxywatch/internal/config"
	"github.com/rivergate/proxywatch/internal/httpapi"
	"github.com/rivergate/proxywatch/internal/logging"
	"github.com/rivergate/proxywatch/internal/notify"
	"github.com/rivergate/proxywatch/internal/probe"
	"github.com/rivergate/proxywatch/internal/repo"
	"github.com/rivergate/proxywatch/internal/repo/memory"
	"github.com/rivergate/proxywatch/internal/repo/postgres"
	"github.com/rivergate/proxywatch/internal/settings"
	"github.com/rivergate/proxywatch/internal/watchdog"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		confStore   repo.ConfigStore
		statusStore repo.StatusStore
	)
	if cfg.DatabaseURL != "" {
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("postgres_connect_error", zap.Error(err))
		}
		defer pg.Close()
		confStore, statusStore = pg, pg
		logger.Info("store_postgres")
	} else {
		mem := memory.New()
		confStore, statusStore = mem, mem
		logger.Info("store_memory")
	}

	svc := settings.New(confStore)
	wd := watchdog.New(
		logger,
		confStore,
		statusStore,
		svc,
		probe.NewTCPChecker(cfg.ProbeTimeout),
		notify.NewWebhook(),
		cfg.BootDelay,
	)
	go wd.Run(ctx)

	api := httpapi.NewServer(logger, statusStore)
	srv := &http.Server{Addr: cfg.Addr, Handler: api.Router()}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	logger.Info("api_listen", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("api_serve_error", zap.Error(err))
	}
}
