package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"healthtrack/internal/database"
	"healthtrack/internal/notify"
)

type Config struct {
	Server        ServerConfig
	Store         StoreConfig
	Database      DatabaseConfig
	Log           LogConfig
	RateLimit     RateLimitConfig
	Upload        UploadConfig
	Notifications notify.Policy
	Seed          SeedConfig
}

type ServerConfig struct {
	Port            int
	Env             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type StoreConfig struct {
	// Driver selects the repository: "memory" or "postgres"
	Driver string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	// URL overrides the individual fields when set
	URL      string
	MaxConns int32
	Retry    database.RetryPolicy
}

// Pool converts the section into the connection settings database.Connect takes.
func (d DatabaseConfig) Pool() database.Config {
	return database.Config{
		DSN:      d.DSN(),
		MaxConns: d.MaxConns,
		Retry:    d.Retry,
	}
}

func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

type LogConfig struct {
	Level   string
	MaxSize int
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	Burst             int
}

type UploadConfig struct {
	AnalysisDelay time.Duration
	QueueSize     int
}

type SeedConfig struct {
	Enabled bool
	// Path points at a YAML file replacing the embedded mock exams
	Path string
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	retry := database.DefaultRetryPolicy()
	retry.MaxRetries = getEnvInt("DB_CONNECT_RETRIES", retry.MaxRetries)
	retry.BaseBackoff = getEnvDuration("DB_CONNECT_BACKOFF", retry.BaseBackoff)

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvInt("SERVER_PORT", 8080),
			Env:             getEnv("ENV", "development"),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", DriverMemory)),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "healthtrack"),
			Password: getEnv("DB_PASSWORD", "healthtrack"),
			Database: getEnv("DB_NAME", "healthtrack"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			URL:      getEnv("DATABASE_URL", ""),
			MaxConns: int32(getEnvInt("DB_MAX_CONNS", 10)),
			Retry:    retry,
		},
		Log: LogConfig{
			Level:   getEnv("LOG_LEVEL", "INFO"),
			MaxSize: getEnvInt("LOG_BUFFER_SIZE", 1000),
		},
		RateLimit: RateLimitConfig{
			Enabled:           getEnvBool("RATE_LIMIT_ENABLED", true),
			RequestsPerSecond: getEnvFloat("RATE_LIMIT_RPS", 20),
			Burst:             getEnvInt("RATE_LIMIT_BURST", 40),
		},
		Upload: UploadConfig{
			AnalysisDelay: getEnvDuration("UPLOAD_ANALYSIS_DELAY", 2*time.Second),
			QueueSize:     getEnvInt("UPLOAD_QUEUE_SIZE", 16),
		},
		Notifications: notify.Policy{
			ReminderAfterDays: getEnvInt("NOTIFY_REMINDER_AFTER_DAYS", notify.DefaultPolicy().ReminderAfterDays),
			SuccessWindowDays: getEnvInt("NOTIFY_SUCCESS_WINDOW_DAYS", notify.DefaultPolicy().SuccessWindowDays),
		},
		Seed: SeedConfig{
			Enabled: getEnvBool("SEED_ENABLED", true),
			Path:    getEnv("SEED_PATH", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverPostgres:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT %d", c.Server.Port)
	}
	if c.Upload.AnalysisDelay < 0 {
		return errors.New("UPLOAD_ANALYSIS_DELAY must not be negative")
	}
	if c.Upload.QueueSize <= 0 {
		return errors.New("UPLOAD_QUEUE_SIZE must be positive")
	}
	if c.Notifications.ReminderAfterDays < 0 || c.Notifications.SuccessWindowDays < 0 {
		return errors.New("notification thresholds must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
