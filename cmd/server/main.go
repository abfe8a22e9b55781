package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/room-occupancy/internal/config"
	"github.com/iliyamo/room-occupancy/internal/handler"
	"github.com/iliyamo/room-occupancy/internal/logger"
	"github.com/iliyamo/room-occupancy/internal/middleware"
	"github.com/iliyamo/room-occupancy/internal/model"
	"github.com/iliyamo/room-occupancy/internal/query"
	"github.com/iliyamo/room-occupancy/internal/queue"
	"github.com/iliyamo/room-occupancy/internal/router"
	"github.com/iliyamo/room-occupancy/internal/scheduler"
	"github.com/iliyamo/room-occupancy/internal/scraper"
	"github.com/iliyamo/room-occupancy/internal/service"
	"github.com/iliyamo/room-occupancy/internal/store"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("load .env: %v", err)
	}
	cfg := config.Load()

	lg, err := logger.New(cfg.LogLevel, cfg.LogFormat, "room-occupancy")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()
	qCfg := config.LoadQueueConfig()

	rdb := config.NewRedisClient()
	if rdb == nil {
		lg.Info("redis unavailable, cache and rate limit disabled")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	snapshots := store.New()
	fetcher := scraper.NewPageFetcher(cfg.UserAgent, cfg.FetchTimeout)

	var opts []service.Option
	if rdb != nil && cacheCfg.Enabled {
		opts = append(opts, service.WithCommitHook("cache-purge", func(ctx context.Context, _ model.Snapshot) error {
			n, err := middleware.PurgeCache(ctx, rdb, cacheCfg.Prefix)
			lg.Debug("response cache purged", zap.Int("keys", n))
			return err
		}))
	}
	if qCfg.Enabled {
		pub := queue.NewPublisher(qCfg.URL, qCfg.Queue, lg.Named("publisher"))
		opts = append(opts, service.WithCommitHook("publish", service.PublishRefreshed(pub, cfg.SourceURL)))
	}
	refresher := service.NewRefresher(cfg.SourceURL, fetcher, snapshots, lg.Named("refresher"), opts...)

	sched, err := scheduler.New(cfg.UpdateInterval, func(ctx context.Context) error {
		_, err := refresher.Run(ctx)
		return err
	}, lg.Named("scheduler"), scheduler.RunOnStart(cfg.RefreshOnStart))
	if err != nil {
		lg.Fatal("invalid UPDATE_INTERVAL", zap.Error(err))
	}
	sched.Start()

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	consumerDone := make(chan struct{})
	if qCfg.ConsumerEnabled {
		c := queue.NewConsumer(qCfg.URL, qCfg.Queue, qCfg.LogDir, lg.Named("consumer"))
		go func() {
			defer close(consumerDone)
			if err := c.Run(consumerCtx); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("refresh log consumer stopped", zap.Error(err))
			}
		}()
	} else {
		close(consumerDone)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	router.RegisterRoutes(e)
	router.RegisterRooms(e, &handler.RoomsHandler{Rooms: query.NewFacade(snapshots)}, rdb, cacheCfg, rlCfg)
	router.RegisterOperator(e, &handler.RefreshHandler{Refresher: refresher, Logger: lg.Named("api")}, cfg.JWTSecret)

	addr := ":" + cfg.Port
	go func() {
		lg.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("source", cfg.SourceURL))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("http server", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	lg.Info("received signal, shutting down", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error("http server shutdown", zap.Error(err))
	}
	sched.Stop()
	stopConsumer()
	<-consumerDone
	lg.Info("shutdown complete")
}
