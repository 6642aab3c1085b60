package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"studydesk/backend/internal/config"
	"studydesk/backend/internal/db"
	"studydesk/backend/internal/logger"
	"studydesk/backend/internal/observability"
	"studydesk/backend/internal/realtime"
	"studydesk/backend/internal/router"
	"studydesk/backend/internal/service"
	"studydesk/backend/internal/srs"
	"studydesk/backend/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if strings.EqualFold(cfg.LogMode, "prod") || strings.EqualFold(cfg.LogMode, "production") {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, log, observability.TracingConfig{
		Enabled:     cfg.OTelEnabled,
		ServiceName: "studydesk-server",
	})
	if err != nil {
		log.Warn("tracing disabled", "error", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	database, err := db.Open(cfg.DBPath, migrations.Source(cfg.MigrationsDir))
	if err != nil {
		log.Fatal("open database", "path", cfg.DBPath, "error", err)
	}
	defer database.Close()

	bus, err := newBus(ctx, log, cfg)
	if err != nil {
		log.Fatal("init sync bus", "error", err)
	}
	defer bus.Close()

	hub := realtime.NewHub(log)
	engine := router.New(router.Deps{
		Services:    service.New(database, srs.NewScheduler(cfg.SRS.Params())),
		Sessions:    service.NewSessionService(cfg.SessionSecret, cfg.SessionTTL),
		Hub:         hub,
		Publisher:   realtime.NewPublisher(bus, log),
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return bus.StartForwarder(groupCtx, hub.Broadcast)
	})
	group.Go(func() error {
		log.Info("backend listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server stopped", "error", err)
		return
	}
	log.Info("server stopped")
}

func newBus(ctx context.Context, log *logger.Logger, cfg config.Config) (realtime.Bus, error) {
	if cfg.RedisAddr == "" {
		return realtime.NewMemoryBus(), nil
	}
	return realtime.NewRedisBus(ctx, log, cfg.RedisAddr, cfg.RedisChannel)
}
