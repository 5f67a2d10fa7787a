package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/house-marketplace/listing-service/internal/adapter/geocode"
	"github.com/house-marketplace/listing-service/internal/adapter/messaging/nats"
	"github.com/house-marketplace/listing-service/internal/adapter/repository/cache"
	"github.com/house-marketplace/listing-service/internal/adapter/repository/mongodb"
	"github.com/house-marketplace/listing-service/internal/adapter/rest"
	"github.com/house-marketplace/listing-service/internal/adapter/storage/s3"
	"github.com/house-marketplace/listing-service/internal/config"
	"github.com/house-marketplace/listing-service/internal/listing/usecase"
	"github.com/house-marketplace/listing-service/internal/mailer"
	"github.com/house-marketplace/listing-service/internal/platform/logger"
	"github.com/house-marketplace/listing-service/internal/platform/tracer"
)

const serviceName = "listing-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracer.Init(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		zapLogger.Fatal("failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("tracer shutdown failed", zap.Error(err))
		}
	}()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		zapLogger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			zapLogger.Error("MongoDB disconnect failed", zap.Error(err))
		}
	}()
	if err := mongoClient.Ping(ctx, nil); err != nil {
		zapLogger.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	db := mongoClient.Database(cfg.MongoDatabase)

	listingRepo := mongodb.NewListingRepository(db)
	userRepo := mongodb.NewUserRepository(db)

	listingCache, err := cache.NewListingCache(cfg.RedisAddress)
	if err != nil {
		zapLogger.Fatal("failed to connect to Redis", zap.Error(err))
	}

	objectStorage, err := s3.NewS3Storage(
		cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey,
		cfg.MinIOBucket, cfg.MinIOUseSSL, zapLogger,
	)
	if err != nil {
		zapLogger.Fatal("failed to initialize object storage", zap.Error(err))
	}

	publisher, err := nats.NewPublisher(cfg.NATSURL)
	if err != nil {
		zapLogger.Fatal("failed to connect to NATS", zap.Error(err))
	}
	defer publisher.Close()

	resolver := geocode.NewGoogleResolver(cfg.GeocodeBaseURL, cfg.GeocodeAPIKey, zapLogger)
	smtpMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)

	uploader := usecase.NewMediaUploader(objectStorage, zapLogger)
	listingUC := usecase.NewListingUsecase(listingRepo, resolver, uploader, listingCache, publisher, zapLogger)
	catalogUC := usecase.NewCatalogUsecase(listingRepo, zapLogger)
	contactUC := usecase.NewContactUsecase(listingRepo, userRepo, smtpMailer, zapLogger)

	handler := rest.NewHandler(catalogUC, listingUC, contactUC, zapLogger)
	router := rest.NewRouter(handler, cfg.JWTSecret, zapLogger)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		zapLogger.Info("HTTP server listening", zap.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zapLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}
