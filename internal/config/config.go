package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Email providers
const (
	EmailProviderDisabled = "disabled"
	EmailProviderResend   = "resend"
	EmailProviderSMTP     = "smtp"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Storage       StorageConfig       `yaml:"storage"`
	Auth          AuthConfig          `yaml:"auth"`
	Email         EmailConfig         `yaml:"email"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
	Tracing       TracingConfig       `yaml:"tracing"`
	Environment   string              `yaml:"environment"`
}

type ServerConfig struct {
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
	BaseURL string `yaml:"base_url"`
}

type StorageConfig struct {
	Driver      string `yaml:"driver"`
	DatabaseURL string `yaml:"database_url"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	JWTExpiry time.Duration `yaml:"jwt_expiry"`
	Issuer    string        `yaml:"issuer"`
}

type EmailConfig struct {
	Provider     string `yaml:"provider"`
	From         string `yaml:"from"`
	ResendAPIKey string `yaml:"resend_api_key"`
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
}

type NotificationsConfig struct {
	QueueSize int `yaml:"queue_size"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type TracingConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"`
	ServiceName  string  `yaml:"service_name"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate"`
}

// Load builds the configuration from defaults, an optional YAML file, and
// environment variables, in that order of precedence (env wins). path may be
// empty.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.Auth.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Storage.Driver != StorageMemory && cfg.Storage.Driver != StoragePostgres {
		return Config{}, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Driver == StoragePostgres && cfg.Storage.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=postgres")
	}
	switch cfg.Email.Provider {
	case EmailProviderDisabled:
	case EmailProviderResend:
		if cfg.Email.ResendAPIKey == "" {
			return Config{}, fmt.Errorf("RESEND_API_KEY is required when EMAIL_PROVIDER=resend")
		}
	case EmailProviderSMTP:
		if cfg.Email.SMTPHost == "" {
			return Config{}, fmt.Errorf("EMAIL_SMTP_HOST is required when EMAIL_PROVIDER=smtp")
		}
	default:
		return Config{}, fmt.Errorf("unsupported email provider %q", cfg.Email.Provider)
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			BaseURL: "http://localhost:8080",
		},
		Storage: StorageConfig{
			Driver: StorageMemory,
		},
		Auth: AuthConfig{
			JWTExpiry: 24 * time.Hour,
			Issuer:    "convene",
		},
		Email: EmailConfig{
			Provider: EmailProviderDisabled,
			From:     "Convene <no-reply@convene.events>",
			SMTPPort: 587,
		},
		Notifications: NotificationsConfig{
			QueueSize: 128,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Tracing: TracingConfig{
			Exporter:    "none",
			ServiceName: "convene-server",
			SampleRate:  1.0,
		},
		Environment: "development",
	}
}

func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnv("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("SERVER_PORT", cfg.Server.Port)
	cfg.Server.BaseURL = getEnv("SERVER_BASE_URL", cfg.Server.BaseURL)

	cfg.Storage.Driver = getEnv("STORAGE_DRIVER", cfg.Storage.Driver)
	cfg.Storage.DatabaseURL = getEnv("DATABASE_URL", cfg.Storage.DatabaseURL)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.JWTExpiry = time.Duration(getEnvInt("JWT_EXPIRY_HOURS", int(cfg.Auth.JWTExpiry/time.Hour))) * time.Hour
	cfg.Auth.Issuer = getEnv("JWT_ISSUER", cfg.Auth.Issuer)

	cfg.Email.Provider = getEnv("EMAIL_PROVIDER", cfg.Email.Provider)
	cfg.Email.From = getEnv("EMAIL_FROM", cfg.Email.From)
	cfg.Email.ResendAPIKey = getEnv("RESEND_API_KEY", cfg.Email.ResendAPIKey)
	cfg.Email.SMTPHost = getEnv("EMAIL_SMTP_HOST", cfg.Email.SMTPHost)
	cfg.Email.SMTPPort = getEnvInt("EMAIL_SMTP_PORT", cfg.Email.SMTPPort)
	cfg.Email.SMTPUser = getEnv("EMAIL_SMTP_USER", cfg.Email.SMTPUser)
	cfg.Email.SMTPPassword = getEnv("EMAIL_SMTP_PASSWORD", cfg.Email.SMTPPassword)

	cfg.Notifications.QueueSize = getEnvInt("NOTIFICATION_QUEUE_SIZE", cfg.Notifications.QueueSize)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)

	cfg.Tracing.Enabled = getEnvBool("TRACING_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.Exporter = getEnv("TRACING_EXPORTER", cfg.Tracing.Exporter)
	cfg.Tracing.ServiceName = getEnv("TRACING_SERVICE_NAME", cfg.Tracing.ServiceName)
	cfg.Tracing.OTLPEndpoint = getEnv("TRACING_OTLP_ENDPOINT", cfg.Tracing.OTLPEndpoint)

	cfg.Environment = getEnv("ENVIRONMENT", cfg.Environment)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
