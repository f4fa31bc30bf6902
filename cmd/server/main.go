package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wallet_ledger/internal/cache"
	"wallet_ledger/internal/config"
	"wallet_ledger/internal/events"
	"wallet_ledger/internal/handlers"
	"wallet_ledger/internal/logging"
	"wallet_ledger/internal/metrics"
	"wallet_ledger/internal/middleware"
	"wallet_ledger/internal/repository"
	"wallet_ledger/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	logger := logging.SetupLogger(cfg.LogLevel)

	gin.SetMode(gin.ReleaseMode)

	if cfg.DBAutomigrate {
		if err := repository.Migrate(cfg.DBURL); err != nil {
			logger.Error("failed to apply migrations", "err", err)
			os.Exit(1)
		}
		logger.Info("Migrations applied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	poolConfig, err := pgxpool.ParseConfig(cfg.DBURL)
	if err != nil {
		logger.Error("failed to parse db config", "err", err)
		os.Exit(1)
	}
	poolConfig.MaxConns = int32(cfg.DBMaxConns)
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []service.Option{
		service.WithCurrency(cfg.Wallet.Currency),
		service.WithMaxRetries(cfg.Wallet.MaxRetries),
		service.WithRecorder(metrics.NewLedgerMetrics(reg)),
	}

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis unavailable, wallet cache disabled", "addr", cfg.RedisAddr, "err", err)
			client.Close()
		} else {
			walletCache := cache.NewWalletCache(client, cfg.WalletCacheTTL)
			defer walletCache.Close()
			opts = append(opts, service.WithCache(walletCache))
		}
	}

	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer publisher.Close()
		opts = append(opts, service.WithPublisher(publisher))
	}

	repo := repository.NewWalletPGRepository(pool, logger)
	svc := service.NewWalletService(repo, logger, opts...)
	handler := handlers.NewWalletHTTPHandler(svc, cfg.Wallet)

	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": false, "message": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	handler.RegisterRoutes(r, middleware.Auth(cfg.JWTSecret, logger))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Starting server", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Error("Server forced to shutdown", "err", err)
	}
	logger.Info("Server exiting")
}
