package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-marketplace/internal/config"
	"auction-marketplace/internal/infrastructure/mysql"
	"auction-marketplace/internal/infrastructure/redis"
	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New().Fatal("Failed to load config", "error", err)
	}
	log := logger.NewWithLevel(cfg.Log.Level).With("service", "bid-recorder")
	log.Info("Starting bid recorder", "config", cfg.GetConfigString())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initCtx, initCancel := context.WithTimeout(ctx, 5*time.Second)
	defer initCancel()
	rdb := utils.InitializeRedis(initCtx, cfg, log)
	db := utils.InitializeMysql(initCtx, cfg, log)

	bidRepo := mysql.NewMySQLBidRepository(db)
	if err := bidRepo.EnsureSchema(initCtx); err != nil {
		log.Fatal("Failed to prepare bid history schema", "error", err)
	}

	recorder := services.NewBidRecorder(bidRepo, log)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := recorder.Start(ctx, redis.NewRedisEventSubscriber(rdb, log)); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Bid recorder subscription ended", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case <-done:
	}

	log.Info("Shutting down bid recorder...")
	cancel()
	<-done

	if err := rdb.Close(); err != nil {
		log.Error("Failed to close Redis connection", "error", err)
	}
	if err := db.Close(); err != nil {
		log.Error("Failed to close MySQL connection", "error", err)
	}
	log.Info("Bid recorder stopped")
}
