package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vitrine-imoveis/listing-service/internal/adapter/cache/redis"
	"github.com/vitrine-imoveis/listing-service/internal/adapter/email"
	"github.com/vitrine-imoveis/listing-service/internal/adapter/http/handler"
	httprouter "github.com/vitrine-imoveis/listing-service/internal/adapter/http/router"
	mongoadapter "github.com/vitrine-imoveis/listing-service/internal/adapter/mongo"
	"github.com/vitrine-imoveis/listing-service/internal/adapter/nats"
	"github.com/vitrine-imoveis/listing-service/internal/adapter/storage/s3"
	"github.com/vitrine-imoveis/listing-service/internal/config"
	"github.com/vitrine-imoveis/listing-service/internal/platform/tracer"
	"github.com/vitrine-imoveis/listing-service/internal/port/cache"
	"github.com/vitrine-imoveis/listing-service/internal/usecase"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	tp, err := tracer.InitTracer()
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Error("Failed to shut down tracer", zap.Error(err))
		}
	}()

	mongoClient, err := mongoadapter.NewConnection(&cfg.Mongo)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()
	logger.Info("Connected to MongoDB", zap.String("database", cfg.Mongo.Database))

	store, err := s3.NewStorage(&cfg.MinIO, logger)
	if err != nil {
		logger.Fatal("Failed to initialize object storage", zap.Error(err))
	}

	// Cache and events degrade gracefully: listings still work without them.
	var cacheRepo cache.CacheRepository
	if redisClient, err := redis.NewRedisClient(&cfg.Redis, logger); err != nil {
		logger.Warn("Running without cache", zap.Error(err))
	} else {
		cacheRepo = redis.NewRedisCacheRepository(redisClient, logger)
		defer func() { _ = redisClient.Close() }()
	}

	var publisher usecase.EventPublisher
	if natsPublisher, err := nats.NewPublisher(&cfg.NATS, logger); err != nil {
		logger.Warn("Running without event publishing", zap.Error(err))
	} else {
		publisher = natsPublisher
		defer natsPublisher.Close()
	}

	var sender usecase.MailSender
	if smtpSender, err := email.NewSMTPSender(&cfg.SMTP, logger); err != nil {
		logger.Warn("Running without inquiry email delivery", zap.Error(err))
	} else {
		sender = smtpSender
	}

	listingRepo := mongoadapter.NewListingRepository(mongoClient, cfg.Mongo.Database)
	imageRepo := mongoadapter.NewListingImageRepository(mongoClient, cfg.Mongo.Database)

	listingUC := usecase.NewListingUseCase(listingRepo, imageRepo, store, cacheRepo, publisher, logger)
	inquiryUC := usecase.NewInquiryUseCase(listingRepo, sender, cfg.SMTP.AgentEmail, logger)

	listingHandler := handler.NewListingHandler(listingUC, inquiryUC, logger)
	adminHandler := handler.NewAdminHandler(listingUC, cfg.HTTP.MaxUploadSize, logger)

	mux := httprouter.New(listingHandler, adminHandler, cfg.JWT.Secret, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
