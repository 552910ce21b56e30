package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Events     EventsConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// AttendanceConfig holds the engine's policy knobs
type AttendanceConfig struct {
	LateStatusThresholdMinutes  int
	LateWarningThresholdMinutes int
	QRPassTTL                   time.Duration
}

// EventsConfig holds event sink tuning
type EventsConfig struct {
	QueueSize     int
	BatchSize     int
	WorkerCount   int
	FlushInterval time.Duration
}

func Load() (*Config, error) {
	// Missing .env is fine in containerized deployments; everything can
	// come from the real environment.
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "chronotrack"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}
	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY is required")
	}

	lateStatus, err := strconv.Atoi(getEnv("LATE_STATUS_THRESHOLD_MINUTES", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid LATE_STATUS_THRESHOLD_MINUTES: %w", err)
	}
	lateWarning, err := strconv.Atoi(getEnv("LATE_WARNING_THRESHOLD_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid LATE_WARNING_THRESHOLD_MINUTES: %w", err)
	}
	qrTTL, err := time.ParseDuration(getEnv("QR_PASS_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid QR_PASS_TTL: %w", err)
	}

	config.Attendance = AttendanceConfig{
		LateStatusThresholdMinutes:  lateStatus,
		LateWarningThresholdMinutes: lateWarning,
		QRPassTTL:                   qrTTL,
	}

	queueSize, err := strconv.Atoi(getEnv("EVENT_QUEUE_SIZE", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid EVENT_QUEUE_SIZE: %w", err)
	}
	batchSize, err := strconv.Atoi(getEnv("EVENT_BATCH_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid EVENT_BATCH_SIZE: %w", err)
	}
	workerCount, err := strconv.Atoi(getEnv("EVENT_WORKER_COUNT", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid EVENT_WORKER_COUNT: %w", err)
	}
	flushInterval, err := time.ParseDuration(getEnv("EVENT_FLUSH_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid EVENT_FLUSH_INTERVAL: %w", err)
	}

	config.Events = EventsConfig{
		QueueSize:     queueSize,
		BatchSize:     batchSize,
		WorkerCount:   workerCount,
		FlushInterval: flushInterval,
	}

	return config, nil
}

// DatabaseURL builds the pgx connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(key, fallback string) []string {
	raw := getEnv(key, fallback)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
