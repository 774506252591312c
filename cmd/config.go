package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"proofparcel/internal/adapters/in/http"
	"proofparcel/internal/adapters/out/postgres"
	"proofparcel/internal/core/domain/services"
	"proofparcel/internal/pkg/errs"

	"github.com/caarlos0/env/v11"
	"github.com/labstack/gommon/log"
	"github.com/robfig/cron/v3"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config is read from the environment; main loads .env first when present.
type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Storage  string `env:"STORAGE" envDefault:"memory"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName     string `env:"DB_NAME" envDefault:"proofparcel"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	SnapshotPath     string `env:"SNAPSHOT_PATH"`
	SnapshotSchedule string `env:"SNAPSHOT_SCHEDULE" envDefault:"@every 1m"`

	OtpTTL    time.Duration `env:"OTP_TTL" envDefault:"5m"`
	OtpLength int           `env:"OTP_LENGTH" envDefault:"8"`

	ReleasePolicy       string        `env:"RELEASE_POLICY" envDefault:"seller"`
	AutoReleaseAfter    time.Duration `env:"AUTO_RELEASE_AFTER" envDefault:"0s"`
	AutoReleaseSchedule string        `env:"AUTO_RELEASE_SCHEDULE" envDefault:"@every 1m"`

	AuthMode   string `env:"AUTH_MODE" envDefault:"header"`
	AuthHeader string `env:"AUTH_HEADER" envDefault:"X-Principal"`
	JWTSecret  string `env:"JWT_SECRET"`
}

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Storage != StorageMemory && c.Storage != StoragePostgres {
		return errs.NewValueIsInvalidErrorWithCause("STORAGE", fmt.Errorf("%q is not memory or postgres", c.Storage))
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if _, err := services.ParseReleasePolicy(c.ReleasePolicy); err != nil {
		return err
	}
	if c.AutoReleaseAfter < 0 {
		return errs.NewValueIsOutOfRangeError("AUTO_RELEASE_AFTER", c.AutoReleaseAfter, time.Duration(0), "no limit")
	}
	// Schedules use the standard five-field cron format or @descriptors.
	for name, spec := range map[string]string{
		"AUTO_RELEASE_SCHEDULE": c.AutoReleaseSchedule,
		"SNAPSHOT_SCHEDULE":     c.SnapshotSchedule,
	} {
		if _, err := cron.ParseStandard(spec); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(name, err)
		}
	}
	return c.Identity().Validate()
}

// SlogLevel parses LOG_LEVEL as one of debug, info, warn or error.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("LOG_LEVEL", err)
	}
	return level, nil
}

// EchoLevel maps LOG_LEVEL onto the gommon logger used by echo.
func (c Config) EchoLevel() log.Lvl {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}

func (c Config) Identity() http.IdentityConfig {
	return http.IdentityConfig{
		Mode:      http.IdentityMode(c.AuthMode),
		Header:    c.AuthHeader,
		JWTSecret: []byte(c.JWTSecret),
	}
}

func (c Config) Database() postgres.ConnectionConfig {
	return postgres.ConnectionConfig{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SslMode:  c.DBSslMode,
	}
}
