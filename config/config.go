package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Admin    AdminConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Mail     MailConfig
	Payment  PaymentConfig
	Archive  ArchiveConfig
	Observ   ObservabilityConfig
	Business BusinessConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type StorageConfig struct {
	DataFile            string
	UploadDir           string
	MaxUploadBytes      int64
	PublicBaseURL       string
	PlaceholderImageURL string
}

type AdminConfig struct {
	Username     string
	PasswordHash string
	JWTSecret    string
	TokenTTL     int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers       []string
	TopicBooking  string
	ConsumerGroup string
}

type MailConfig struct {
	Mode       string
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	AdminEmail string
}

type PaymentConfig struct {
	StripeSecretKey string
}

type ArchiveConfig struct {
	DatabaseURL string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

type BusinessConfig struct {
	PhoneRegion           string
	IdempotencyTTLSeconds int
	NotifyTimeoutSeconds  int
}

// Notification modes
const (
	NotifyModeDirect = "direct"
	NotifyModeKafka  = "kafka"
	NotifyModeNone   = "none"
)

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	tokenTTL, _ := strconv.Atoi(getEnv("JWT_TTL_HOURS", "12"))
	maxUpload, _ := strconv.ParseInt(getEnv("MAX_UPLOAD_BYTES", "5242880"), 10, 64)
	idempotencyTTL, _ := strconv.Atoi(getEnv("IDEMPOTENCY_TTL_SECONDS", "86400"))
	notifyTimeout, _ := strconv.Atoi(getEnv("NOTIFY_TIMEOUT_SECONDS", "15"))

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Storage: StorageConfig{
			DataFile:            getEnv("DATA_FILE", "data/inventory.json"),
			UploadDir:           getEnv("UPLOAD_DIR", "uploads"),
			MaxUploadBytes:      maxUpload,
			PublicBaseURL:       strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:8080"), "/"),
			PlaceholderImageURL: getEnv("PLACEHOLDER_IMAGE_URL", "https://via.placeholder.com/640x400?text=No+Image"),
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:    getEnv("JWT_SECRET", ""),
			TokenTTL:     tokenTTL,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(getEnv("KAFKA_BROKERS", "")),
			TopicBooking:  getEnv("KAFKA_TOPIC_BOOKING_EVENTS", "booking-events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "car-rental-group"),
		},
		Mail: MailConfig{
			Mode:       getEnv("NOTIFY_MODE", NotifyModeDirect),
			Host:       getEnv("SMTP_HOST", ""),
			Port:       smtpPort,
			Username:   getEnv("SMTP_USERNAME", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			From:       getEnv("MAIL_FROM", "bookings@example.com"),
			AdminEmail: getEnv("ADMIN_EMAIL", ""),
		},
		Payment: PaymentConfig{
			StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		},
		Archive: ArchiveConfig{
			DatabaseURL: getEnv("ARCHIVE_DATABASE_URL", ""),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
		},
		Business: BusinessConfig{
			PhoneRegion:           getEnv("PHONE_REGION", "US"),
			IdempotencyTTLSeconds: idempotencyTTL,
			NotifyTimeoutSeconds:  notifyTimeout,
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, data=%s", cfg.Server.Env, cfg.Server.Port, cfg.Storage.DataFile)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
