package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/payhook/payments-backend/internal/api"
	"github.com/payhook/payments-backend/internal/auth"
	"github.com/payhook/payments-backend/internal/cache"
	"github.com/payhook/payments-backend/internal/config"
	"github.com/payhook/payments-backend/internal/db"
	"github.com/payhook/payments-backend/internal/events/kafka"
	"github.com/payhook/payments-backend/internal/logger"
	"github.com/payhook/payments-backend/internal/metrics"
	"github.com/payhook/payments-backend/internal/repository/postgres"
	"github.com/payhook/payments-backend/internal/services"
	"github.com/payhook/payments-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	metrics.Init()

	var cacheStore cache.Store
	if cfg.RedisAddr != "" {
		redisStore := cache.NewRedisStore(cfg.RedisAddr)
		defer redisStore.Close()
		cacheStore = redisStore
	} else {
		cacheStore = cache.NewMemoryStore()
	}
	cacheSvc := cache.NewService(cacheStore, cfg.CacheTTL, log)

	var events services.EventPublisher
	if cfg.KafkaBroker != "" {
		pub := kafka.NewPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		defer pub.Close()
		events = pub
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	userSvc := services.NewUserService(repos.Users, log)
	accountSvc := services.NewAccountService(repos.Accounts, cacheSvc, log)
	paymentSvc := services.NewPaymentService(
		repos.Payments,
		repos.Accounts,
		repos.Tx,
		cacheSvc,
		wp,
		events,
		cfg.WebhookSecret,
		log,
	)

	r := api.NewRouter(api.RouterDeps{
		Cfg:        cfg,
		TM:         tm,
		UserSvc:    userSvc,
		AccountSvc: accountSvc,
		PaymentSvc: paymentSvc,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
