package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go-leave/internal/domain"
	"go-leave/internal/ledger"
	"go-leave/internal/shared/connection"
	"go-leave/internal/shared/txretry"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds runtime configuration for all three processes.
type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppVersion  string `envconfig:"APP_VERSION" default:"dev"`
	Port        string `envconfig:"PORT" default:"3000"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"UTC"`

	HTTPReadTimeout  time.Duration `envconfig:"HTTP_READ_TIMEOUT" default:"5s"`
	HTTPWriteTimeout time.Duration `envconfig:"HTTP_WRITE_TIMEOUT" default:"10s"`
	HTTPIdleTimeout  time.Duration `envconfig:"HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout  time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`

	RateLimitIPRPS   float64 `envconfig:"RATE_LIMIT_IP_RPS" default:"20"`
	RateLimitIPBurst int     `envconfig:"RATE_LIMIT_IP_BURST" default:"40"`

	DBHost       string `envconfig:"DB_HOST"`
	DBUser       string `envconfig:"DB_USER"`
	DBPassword   string `envconfig:"DB_PASSWORD"`
	DBName       string `envconfig:"DB_NAME"`
	DBPort       string `envconfig:"DB_PORT" default:"5432"`
	DBSSLMode    string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxRetries int    `envconfig:"DB_MAX_RETRIES" default:"5"`

	RedisAddr   string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	KafkaBroker string `envconfig:"KAFKA_BROKER"`

	JWTSecret     string `envconfig:"JWT_SECRET"`
	RBACModelPath string `envconfig:"RBAC_MODEL_PATH"`

	LedgerFloorEnabled     bool     `envconfig:"LEDGER_FLOOR_ENABLED" default:"true"`
	LedgerBalanceFloor     string   `envconfig:"LEDGER_BALANCE_FLOOR" default:"0"`
	LedgerFloorExemptTypes []string `envconfig:"LEDGER_FLOOR_EXEMPT_TYPES" default:"SICK"`

	TxMaxRetries       int           `envconfig:"TX_MAX_RETRIES" default:"3"`
	OutboxPollInterval time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"3s"`
}

// LoadConfig reads .env when present, then the process environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if _, err := cfg.FloorPolicy(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RequireAPI checks the settings only the HTTP process needs.
func (c *Config) RequireAPI() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	return nil
}

// RequireKafka checks the settings the worker and consumer need.
func (c *Config) RequireKafka() error {
	if c.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.AppTimezone)
}

func (c *Config) Postgres() connection.PostgresConfig {
	return connection.PostgresConfig{
		Host:     c.DBHost,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		Port:     c.DBPort,
		SSLMode:  c.DBSSLMode,
	}
}

func (c *Config) FloorPolicy() (ledger.FloorPolicy, error) {
	floor, err := decimal.NewFromString(c.LedgerBalanceFloor)
	if err != nil {
		return ledger.FloorPolicy{}, fmt.Errorf("invalid LEDGER_BALANCE_FLOOR %q: %w", c.LedgerBalanceFloor, err)
	}

	exempt := make(map[domain.LeaveType]bool, len(c.LedgerFloorExemptTypes))
	for _, raw := range c.LedgerFloorExemptTypes {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		lt, err := domain.ParseLeaveType(raw)
		if err != nil {
			return ledger.FloorPolicy{}, fmt.Errorf("invalid LEDGER_FLOOR_EXEMPT_TYPES: %w", err)
		}
		exempt[lt] = true
	}

	return ledger.FloorPolicy{
		Enabled: c.LedgerFloorEnabled,
		Floor:   floor,
		Exempt:  exempt,
	}, nil
}

func (c *Config) TxRetry() txretry.Config {
	cfg := txretry.DefaultConfig()
	cfg.MaxRetries = c.TxMaxRetries
	return cfg
}

// NewLogger builds the process logger. Production emits JSON.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
