package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-marketplace/internal/api/handlers"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/infrastructure/mysql"
	"auction-marketplace/internal/infrastructure/redis"
	"auction-marketplace/internal/infrastructure/tokens"
	"auction-marketplace/internal/mapping"
	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New().Fatal("Failed to load config", "error", err)
	}
	log := logger.NewWithLevel(cfg.Log.Level).With("service", "marketplace-api")
	log.Info("Starting marketplace API", "config", cfg.GetConfigString())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rdb := utils.InitializeRedis(ctx, cfg, log)
	defer rdb.Close()

	db := utils.InitializeMysql(ctx, cfg, log)
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close MySQL connection", "error", err)
		}
	}()

	resolver, err := tokens.NewResolver(cfg.Tokens.CacheSize,
		redis.NewRedisSymbolCache(rdb, cfg.Tokens.CacheTTL), cfg.Tokens.Symbols, log)
	if err != nil {
		log.Fatal("Failed to create token resolver", "error", err)
	}

	registry, err := services.NewRegistry(cfg.Contracts.Addresses(), log)
	if err != nil {
		log.Fatal("Failed to create auction service registry", "error", err)
	}

	publisher := redis.NewEventPublisher(rdb)
	market := services.NewMarketService(
		registry,
		mapping.NewMapper(resolver, log),
		services.NewSnapshotStore(),
		publisher,
		publisher,
		time.Now,
		log,
	)
	watchlist := services.NewWatchlistService(redis.NewRedisWatchlistStore(rdb, log), log)
	bidHistory := services.NewBidRecorder(mysql.NewMySQLBidRepository(db), log)

	e := handlers.Router{
		Auctions:  handlers.NewAuctionHandler(market, bidHistory, log),
		Watchlist: handlers.NewWatchlistHandler(watchlist, log),
		Tokens:    handlers.NewTokenHandler(resolver, log),
		Service:   "marketplace-api",
		Log:       log,
	}.Echo()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		log.Info("Starting API server", "address", serverAddr)
		if err := e.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down marketplace API...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Marketplace API stopped")
}
