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

	"auction-marketplace/internal/api/middleware"
	"auction-marketplace/internal/config"
	"auction-marketplace/internal/infrastructure/leader"
	"auction-marketplace/internal/infrastructure/redis"
	"auction-marketplace/internal/infrastructure/websocket"
	"auction-marketplace/internal/services"
	"auction-marketplace/pkg/logger"
	"auction-marketplace/pkg/utils"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New().Fatal("Failed to load config", "error", err)
	}
	log := logger.NewWithLevel(cfg.Log.Level).With("service", "price-feed", "instance_id", cfg.Instance.ID)
	log.Info("Starting price feed", "config", cfg.GetConfigString())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	rdb := utils.InitializeRedis(pingCtx, cfg, log)
	pingCancel()
	defer rdb.Close()

	store := services.NewSnapshotStore()
	publisher := redis.NewEventPublisher(rdb)
	subscriber := redis.NewRedisEventSubscriber(rdb, log)
	leaderElection := leader.NewRedisLeaderElection(rdb, cfg.Leader.TTL, log)

	ticker := services.NewPriceTicker(cfg.Feed.TickSpec, store, publisher, leaderElection, cfg.Instance.ID, time.Now, log)

	connManager := websocket.NewConnectionManager(log)
	eventListener := services.NewEventListener(connManager, websocket.NewNotifier(connManager), log)

	router := mux.NewRouter()
	router.Use(middleware.Recovery(log), middleware.CORSWithLogging(log))
	websocket.NewFeedHandler(ticker, connManager, log).Register(router)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	go func() {
		if err := ticker.Follow(ctx, subscriber); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Snapshot subscription ended", "error", err)
		}
	}()

	go func() {
		if err := eventListener.Start(ctx, subscriber); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Event listener ended", "error", err)
		}
	}()

	if err := ticker.Start(ctx); err != nil {
		log.Fatal("Failed to start price ticker", "error", err)
	}

	// Try to become leader
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			became, err := leaderElection.BecomeLeader(ctx, cfg.Instance.ID)
			if err != nil {
				log.Error("Failed to attempt leadership", "error", err)
				time.Sleep(5 * time.Second)
				continue
			}
			if became {
				log.Info("Became price feed leader")
			}
			time.Sleep(10 * time.Second)
		}
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.FeedPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Starting feed server", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down price feed...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	ticker.Stop()
	if err := leaderElection.ReleaseLeadership(shutdownCtx, cfg.Instance.ID); err != nil {
		log.Error("Failed to release leadership", "error", err)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Price feed stopped")
}
