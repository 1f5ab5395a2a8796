package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/openhaus/listing-service/internal/adapter/geocode"
	"github.com/openhaus/listing-service/internal/adapter/messaging/nats"
	"github.com/openhaus/listing-service/internal/adapter/repository/cache"
	"github.com/openhaus/listing-service/internal/adapter/repository/mongodb"
	"github.com/openhaus/listing-service/internal/adapter/rest"
	"github.com/openhaus/listing-service/internal/adapter/storage/s3"
	"github.com/openhaus/listing-service/internal/config"
	"github.com/openhaus/listing-service/internal/listing/usecase"
	"github.com/openhaus/listing-service/internal/mailer"
	"github.com/openhaus/listing-service/internal/platform/logger"
	"github.com/openhaus/listing-service/internal/platform/tracer"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.NewLogger()

	tp := tracer.InitTracer()
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", "error", err.Error())
		}
	}()

	// MongoDB
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoClient.Disconnect(context.Background())
	if err := mongoClient.Ping(context.Background(), nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	db := mongoClient.Database(cfg.MongoDB)

	listingRepo := mongodb.NewListingRepository(db, appLogger)
	userRepo := mongodb.NewUserRepository(db, appLogger)

	// Redis listing cache
	listingCache, err := cache.NewListingCache(cfg.RedisAddress)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// MinIO image storage
	imageStorage, err := s3.NewImageStorage(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOBucket, cfg.MinIOUseSSL, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	// NATS lifecycle events
	natsPublisher, err := nats.NewPublisher(cfg.NATSURL)
	if err != nil {
		log.Fatalf("Failed to initialize NATS: %v", err)
	}
	defer natsPublisher.Close()

	geocoder := geocode.NewClient(cfg.GeocoderBaseURL, cfg.GeocoderAPIKey, appLogger)
	contactMailer := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPEmail, cfg.SMTPPassword)

	submissionUc := usecase.NewSubmissionUsecase(listingRepo, imageStorage, geocoder, listingCache, natsPublisher, cfg.GeocodingEnabled, appLogger)
	queryUc := usecase.NewQueryUsecase(listingRepo, listingCache, natsPublisher, appLogger)
	userUc := usecase.NewUserUsecase(userRepo, cfg.JWTSecret, appLogger)

	listingHandler := rest.NewListingHandler(submissionUc, queryUc, userUc, contactMailer, appLogger)
	userHandler := rest.NewUserHandler(userUc, appLogger)
	router := rest.NewRouter(listingHandler, userHandler, cfg.JWTSecret, appLogger)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		appLogger.Info("Starting HTTP server", "port", cfg.HTTPPort, "geocoding_enabled", cfg.GeocodingEnabled)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutdown signal received, stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", "error", err.Error())
	}
}
