package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"swiss-tournament/internal/constants"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	DBPath         string
	ServerPort     string
	LogLevel       string
	AvoidRematches bool
	WebhookURL     string
	WebhookTimeout time.Duration

	// zero disables the periodic check
	IntegrityCheckInterval time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	avoidRematches, err := strconv.ParseBool(getEnv("AVOID_REMATCHES", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid AVOID_REMATCHES: %w", err)
	}

	webhookTimeout, err := time.ParseDuration(getEnv("WEBHOOK_TIMEOUT", constants.WebhookTimeout.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid WEBHOOK_TIMEOUT: %w", err)
	}

	integrityInterval, err := time.ParseDuration(getEnv("INTEGRITY_CHECK_INTERVAL", constants.IntegrityCheckInterval.String()))
	if err != nil {
		return nil, fmt.Errorf("invalid INTEGRITY_CHECK_INTERVAL: %w", err)
	}
	if integrityInterval < 0 {
		return nil, fmt.Errorf("invalid INTEGRITY_CHECK_INTERVAL %s: must not be negative", integrityInterval)
	}

	logLevel, err := zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		DBPath:         getEnv("DB_PATH", "tournament.db"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogLevel:       logLevel.String(),
		AvoidRematches: avoidRematches,
		WebhookURL:     getEnv("WEBHOOK_URL", ""),
		WebhookTimeout: webhookTimeout,

		IntegrityCheckInterval: integrityInterval,
	}

	if _, err := strconv.ParseUint(cfg.ServerPort, 10, 16); err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT %q: %w", cfg.ServerPort, err)
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Bool("avoid_rematches", cfg.AvoidRematches).
		Bool("webhook_enabled", cfg.WebhookURL != "").
		Dur("webhook_timeout", cfg.WebhookTimeout).
		Dur("integrity_check_interval", cfg.IntegrityCheckInterval).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
