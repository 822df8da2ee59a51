package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Backend selects where registry metadata is read from.
type Backend string

const (
	BackendHTTP     Backend = "http"
	BackendPostgres Backend = "postgres"
)

type Config struct {
	Tracking TrackingConfig
	Database DatabaseConfig
	Export   ExportConfig
	Logger   LoggerConfig
}

type TrackingConfig struct {
	URL     string
	Timeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type ExportConfig struct {
	Backend   Backend
	Stages    string
	ExportRun bool
}

type LoggerConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("TRACKING_URL", "http://localhost:5000")
	v.SetDefault("TRACKING_TIMEOUT", "30s")
	v.SetDefault("REGISTRY_BACKEND", "http")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "mlflow")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "mlflow")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("EXPORT_STAGES", "")
	v.SetDefault("EXPORT_RUN", true)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "text")

	// Env
	v.AutomaticEnv()

	timeout, err := time.ParseDuration(v.GetString("TRACKING_TIMEOUT"))
	if err != nil {
		timeout = 30 * time.Second
	}

	cfg := &Config{
		Tracking: TrackingConfig{
			URL:     v.GetString("TRACKING_URL"),
			Timeout: timeout,
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Export: ExportConfig{
			Backend:   Backend(v.GetString("REGISTRY_BACKEND")),
			Stages:    v.GetString("EXPORT_STAGES"),
			ExportRun: v.GetBool("EXPORT_RUN"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	return cfg, nil
}
