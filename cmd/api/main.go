package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/herdtrack-api/internal/config"
	"github.com/herdtrack-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/herdtrack-api/internal/infrastructure/jwt"
	s3infra "github.com/herdtrack-api/internal/infrastructure/s3"
	"github.com/herdtrack-api/internal/infrastructure/smtp"
	"github.com/herdtrack-api/internal/infrastructure/sns"
	transporthttp "github.com/herdtrack-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — graceful fallback if keys are missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store for health-record attachments.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS channels for SMS and mobile push (optional). The variables are
	// interface-typed so a failed setup leaves them nil rather than
	// wrapping a nil *sns.Sender.
	var smsSender sns.SMSSender
	var pushSender sns.PushSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
		pushSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		SessionRepo:      dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		DeviceRepo:       dynamo.NewDeviceRepo(dynamoClient, cfg.DynamoTables.Devices),
		AnimalRepo:       dynamo.NewAnimalRepo(dynamoClient, cfg.DynamoTables.Animals),
		VaccineRepo:      dynamo.NewVaccineRepo(dynamoClient, cfg.DynamoTables.Vaccines),
		VaccinationRepo:  dynamo.NewVaccinationRepo(dynamoClient, cfg.DynamoTables.Vaccinations),
		HealthRecordRepo: dynamo.NewHealthRecordRepo(dynamoClient, cfg.DynamoTables.HealthRecords),
		AttachmentRepo:   dynamo.NewAttachmentRepo(dynamoClient, cfg.DynamoTables.Attachments),
		NotificationRepo: dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications),
		S3Store:          s3Store,
		Mailer:           mailer,
		SMSSender:        smsSender,
		PushSender:       pushSender,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
