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

	"car-rental/config"
	"car-rental/internal/api"
	"car-rental/internal/archive"
	"car-rental/internal/auth"
	"car-rental/internal/broker"
	"car-rental/internal/catalog"
	"car-rental/internal/models"
	"car-rental/internal/notify"
	"car-rental/internal/redisclient"
	"car-rental/internal/service"
	"car-rental/internal/store"
	"car-rental/internal/uploads"
	"car-rental/internal/util"
	"car-rental/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting car rental service")

	tp, err := util.InitTracer("car-rental", cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}()

	ctx := context.Background()

	inventory := store.NewStore(cfg.Storage.DataFile)
	if err := inventory.InitializeIfAbsent(ctx); err != nil {
		logger.Fatal("Failed to initialize inventory store", zap.String("path", cfg.Storage.DataFile), zap.Error(err))
	}
	logger.Info("Inventory store ready", zap.String("path", inventory.Path()))

	uploadStorage, err := uploads.NewStorage(cfg.Storage.UploadDir, cfg.Storage.MaxUploadBytes)
	if err != nil {
		logger.Fatal("Failed to initialize upload storage", zap.Error(err))
	}

	var idempotency service.IdempotencyStore
	var redisClient *redisclient.Client
	if cfg.Redis.Addr != "" {
		redisClient, err = redisclient.NewClient(
			cfg.Redis.Addr,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Business.IdempotencyTTLSeconds)*time.Second,
		)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		idempotency = redisClient
		logger.Info("Redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	var payments service.PaymentVerifier
	if cfg.Payment.StripeSecretKey != "" {
		payments = service.NewStripeVerifier(cfg.Payment.StripeSecretKey)
		logger.Info("Stripe payment verification enabled")
	}

	var emailNotifier *notify.EmailNotifier
	if cfg.Mail.Host != "" {
		mailer := notify.NewSMTPMailer(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Username, cfg.Mail.Password, cfg.Mail.From)
		emailNotifier = notify.NewEmailNotifier(mailer, cfg.Mail.AdminEmail)
	}

	kafkaEnabled := len(cfg.Kafka.Brokers) > 0

	var notifiers notify.Fanout
	var producer *broker.Producer
	if kafkaEnabled {
		producer = broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicBooking)
		defer producer.Close()
		notifiers = append(notifiers, broker.NewEventPublisher(producer))
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	switch cfg.Mail.Mode {
	case config.NotifyModeDirect:
		if emailNotifier != nil {
			notifiers = append(notifiers, emailNotifier)
		} else {
			logger.Warn("SMTP_HOST not set, booking confirmations disabled")
		}
	case config.NotifyModeKafka:
		if !kafkaEnabled {
			logger.Warn("NOTIFY_MODE=kafka requires KAFKA_BROKERS, booking confirmations disabled")
		}
	case config.NotifyModeNone:
	default:
		logger.Warn("Unknown NOTIFY_MODE, booking confirmations disabled", zap.String("mode", cfg.Mail.Mode))
	}

	var notifier service.Notifier
	if len(notifiers) > 0 {
		notifier = notifiers
	}

	validator := service.NewRequestValidator(cfg.Business.PhoneRegion)
	bookingService := service.NewBookingService(inventory, validator, notifier, payments, idempotency)
	bookingService.SetNotifyTimeout(time.Duration(cfg.Business.NotifyTimeoutSeconds) * time.Second)
	catalogService := service.NewCatalogService(inventory, catalog.NewProjector(cfg.Storage.PublicBaseURL, cfg.Storage.PlaceholderImageURL))
	adminService := service.NewAdminService(inventory, validator)

	if cfg.Admin.PasswordHash == "" {
		logger.Warn("ADMIN_PASSWORD_HASH not set, admin API disabled")
	}
	if cfg.Admin.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, admin API disabled")
	}
	authenticator := auth.NewAuthenticator(
		cfg.Admin.Username,
		cfg.Admin.PasswordHash,
		cfg.Admin.JWTSecret,
		time.Duration(cfg.Admin.TokenTTL)*time.Hour,
	)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var stoppers []func() error

	if kafkaEnabled && cfg.Mail.Mode == config.NotifyModeKafka {
		if emailNotifier == nil {
			logger.Warn("SMTP_HOST not set, notification worker not started")
		} else {
			consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicBooking, cfg.Kafka.ConsumerGroup+"-notify")
			notificationWorker := worker.NewNotificationWorker(consumer, emailNotifier)
			stoppers = append(stoppers, notificationWorker.Stop)
			go func() {
				if err := notificationWorker.Start(workerCtx); err != nil && err != context.Canceled {
					logger.Error("Notification worker error", zap.Error(err))
				}
			}()
		}
	}

	var bookingArchive *archive.Archive
	if cfg.Archive.DatabaseURL != "" {
		if !kafkaEnabled {
			logger.Warn("ARCHIVE_DATABASE_URL requires KAFKA_BROKERS, archive disabled")
		} else {
			bookingArchive, err = archive.NewArchive(cfg.Archive.DatabaseURL)
			if err != nil {
				logger.Fatal("Failed to connect to archive database", zap.Error(err))
			}
			defer bookingArchive.Close()

			consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicBooking, cfg.Kafka.ConsumerGroup+"-archive")
			archiveWorker := worker.NewArchiveWorker(consumer, bookingArchive)
			stoppers = append(stoppers, archiveWorker.Stop)
			go func() {
				if err := archiveWorker.Start(workerCtx); err != nil && err != context.Canceled {
					logger.Error("Archive worker error", zap.Error(err))
				}
			}()
			logger.Info("Booking archive enabled")
		}
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.Storage.MaxUploadBytes

	handler := api.NewHandler(catalogService, bookingService, adminService, authenticator, uploadStorage)
	handler.AddReadinessCheck("store", func(ctx context.Context) error {
		return inventory.View(ctx, func(*models.Inventory) error { return nil })
	})
	if redisClient != nil {
		handler.AddReadinessCheck("redis", redisClient.Ping)
	}
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	for _, stop := range stoppers {
		if err := stop(); err != nil {
			logger.Warn("Error stopping worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}
