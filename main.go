package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carwash-backend/config"
	"carwash-backend/ledger"
	"carwash-backend/persistence"
	"carwash-backend/routes"
	"carwash-backend/services"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gateway, closeGateway, err := openGateway(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer closeGateway()

	node, err := snowflake.NewNode(1)
	if err != nil {
		logger.Fatal("failed to create id node", zap.Error(err))
	}
	store, err := ledger.New(ctx, gateway, ledger.WithLogger(logger), ledger.WithIDNode(node))
	if err != nil {
		logger.Fatal("failed to load ledger", zap.Error(err))
	}

	assistant, err := services.NewGeminiAssistant(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Shop.Name, logger)
	if err != nil {
		logger.Fatal("failed to create assistant", zap.Error(err))
	}
	notifier := services.NewTwilioNotifier(services.TwilioConfig{
		AccountSID:     cfg.Twilio.AccountSID,
		AuthToken:      cfg.Twilio.AuthToken,
		PhoneNumber:    cfg.Twilio.PhoneNumber,
		WhatsAppNumber: cfg.Twilio.WhatsAppNumber,
		CountryPrefix:  cfg.PhoneCountryPrefix,
	}, logger)

	scheduler := services.NewReportScheduler(store, assistant, notifier, cfg.OwnerPhone, logger)
	if cfg.DailyReportCron != "" && cfg.OwnerPhone != "" {
		if err := scheduler.Start(cfg.DailyReportCron); err != nil {
			logger.Fatal("failed to start report scheduler", zap.Error(err))
		}
		defer scheduler.Stop()
	}

	r := routes.SetupRouter(routes.Dependencies{
		Config:    cfg,
		Store:     store,
		Assistant: assistant,
		Notifier:  notifier,
		Scheduler: scheduler,
		Log:       logger,
		Now:       time.Now,
	})
	if !cfg.IsProduction() {
		printRoutes(r)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openGateway picks the storage backend named by STORAGE_DRIVER.
func openGateway(ctx context.Context, cfg config.Config, logger *zap.Logger) (persistence.Gateway, func(), error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres, config.DriverSQLite:
		db, err := config.ConnectDB(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		gw, err := persistence.NewGormGateway(db)
		if err != nil {
			return nil, nil, err
		}
		return gw, func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		logger.Info("redis connected", zap.String("addr", cfg.RedisAddr))
		return persistence.NewRedisGateway(client, cfg.RedisPrefix), func() { client.Close() }, nil

	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		return persistence.NewMemory(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
