package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/pkg/logger"
	handlers "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/adapter/handler/http"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/config"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/infrastructure/database"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/infrastructure/events"
	grpcServer "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/infrastructure/grpc"
	httpServer "github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/infrastructure/http"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/infrastructure/mail"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/infrastructure/notification"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/metrics"
	"github.com/QuocViet-uth/Online-Learing-Web-Application-sub000/services/payment/internal/usecase"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

type eventPublisher interface {
	usecase.PaymentEventPublisher
	Close() error
}

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting payment service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("version", cfg.Service.Version),
		zap.String("database_driver", cfg.Database.Driver),
		zap.String("notification_driver", cfg.Notification.Driver))

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, zapLogger); err != nil {
			zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
		}
	}

	repos := database.NewRepositories(db, zapLogger)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.Register(registry)

	// Teacher notifications
	var mailer mail.Mailer
	if m := mail.NewSMTPMailer(cfg.Email, zapLogger); m != nil {
		mailer = m
	}
	worker := notification.NewWorker(repos.Notification, mailer, cfg.Notification.RetryAttempts, cfg.Notification.RetryDelay, zapLogger)

	dispatcher, err := notification.NewDispatcher(cfg.Notification, cfg.Redis, worker, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create notification dispatcher", zap.Error(err))
	}
	dispatcher.Start()

	// Payment events
	var publisher eventPublisher = events.NewLogPublisher(zapLogger)
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.Kafka, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to create Kafka publisher", zap.Error(err))
		}
		publisher = kafkaPublisher
	}

	// Use cases
	paymentService := usecase.NewPaymentService(usecase.PaymentServiceDeps{
		Transactor:     repos.Transactor,
		Payments:       repos.Payment,
		Enrollments:    repos.Enrollment,
		Courses:        repos.Course,
		Users:          repos.User,
		Dispatcher:     dispatcher,
		Publisher:      publisher,
		Logger:         zapLogger,
		ConfirmTimeout: cfg.Service.ConfirmTimeout,
	})
	notificationService := usecase.NewNotificationService(repos.Notification, zapLogger)

	// Initialize servers
	grpcSrv := grpcServer.NewServer(cfg, zapLogger)
	httpSrv := httpServer.NewServer(cfg, zapLogger, registry, httpServer.Handlers{
		Payments:      handlers.NewPaymentHandler(paymentService, zapLogger),
		Notifications: handlers.NewNotificationHandler(notificationService, zapLogger),
	})

	// Start servers
	go func() {
		if err := grpcSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start gRPC server", zap.Error(err))
		}
	}()

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down servers...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	if err := grpcSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown gRPC server", zap.Error(err))
	}

	// Queued notifications drain after the last request has finished
	if err := dispatcher.Close(ctx); err != nil {
		zapLogger.Error("Failed to drain notification queue", zap.Error(err))
	}

	if err := publisher.Close(); err != nil {
		zapLogger.Error("Failed to close event publisher", zap.Error(err))
	}

	zapLogger.Info("Servers shut down successfully")
}
