package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Wizard   WizardConfig
	Exports  ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// WizardConfig tunes the authoring workflow engine.
type WizardConfig struct {
	SessionTTL           time.Duration
	SweepInterval        time.Duration
	DescriptionLimit     int
	SidebarLimit         int
	BannerLimit          int
	LengthWarnCooldown   time.Duration
	MaxBulkRows          int
	PlannedScheduledType string
	ReferenceCacheTTL    time.Duration
}

// ExportsConfig controls row-error report generation and download.
type ExportsConfig struct {
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	WorkerConcurrency int
	WorkerRetries     int
	CleanupInterval   time.Duration
}

// Load reads configuration from environment variables, applying defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "announcements")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("WIZARD_SESSION_TTL", "30m")
	v.SetDefault("WIZARD_SWEEP_INTERVAL", "5m")
	v.SetDefault("WIZARD_DESCRIPTION_LIMIT", 250)
	v.SetDefault("WIZARD_SIDEBAR_LIMIT", 500)
	v.SetDefault("WIZARD_BANNER_LIMIT", 100)
	v.SetDefault("WIZARD_LENGTH_WARN_COOLDOWN", "3s")
	v.SetDefault("WIZARD_MAX_BULK_ROWS", 500)
	v.SetDefault("WIZARD_PLANNED_SCHEDULED_TYPE", "Planned Scheduled")
	v.SetDefault("WIZARD_REFERENCE_CACHE_TTL", "10m")

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("EXPORTS_WORKER_CONCURRENCY", 2)
	v.SetDefault("EXPORTS_WORKER_RETRIES", 3)
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "1h")

	cfg := &Config{
		Env:       strings.ToLower(v.GetString("ENV")),
		Port:      v.GetInt("PORT"),
		APIPrefix: v.GetString("API_PREFIX"),
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Wizard: WizardConfig{
			SessionTTL:           v.GetDuration("WIZARD_SESSION_TTL"),
			SweepInterval:        v.GetDuration("WIZARD_SWEEP_INTERVAL"),
			DescriptionLimit:     v.GetInt("WIZARD_DESCRIPTION_LIMIT"),
			SidebarLimit:         v.GetInt("WIZARD_SIDEBAR_LIMIT"),
			BannerLimit:          v.GetInt("WIZARD_BANNER_LIMIT"),
			LengthWarnCooldown:   v.GetDuration("WIZARD_LENGTH_WARN_COOLDOWN"),
			MaxBulkRows:          v.GetInt("WIZARD_MAX_BULK_ROWS"),
			PlannedScheduledType: v.GetString("WIZARD_PLANNED_SCHEDULED_TYPE"),
			ReferenceCacheTTL:    v.GetDuration("WIZARD_REFERENCE_CACHE_TTL"),
		},
		Exports: ExportsConfig{
			StorageDir:        v.GetString("EXPORTS_STORAGE_DIR"),
			SignedURLSecret:   v.GetString("EXPORTS_SIGNED_URL_SECRET"),
			SignedURLTTL:      v.GetDuration("EXPORTS_SIGNED_URL_TTL"),
			WorkerConcurrency: v.GetInt("EXPORTS_WORKER_CONCURRENCY"),
			WorkerRetries:     v.GetInt("EXPORTS_WORKER_RETRIES"),
			CleanupInterval:   v.GetDuration("EXPORTS_CLEANUP_INTERVAL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		return errors.New("ENV must be development or production")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("PORT must be a valid TCP port")
	}
	if c.Env == EnvProduction && c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required in production")
	}
	return nil
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
