package app

import (
	"testing"
	"time"

	"go-leave/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()

	assert.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTPReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 3*time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, 3, cfg.TxRetry().MaxRetries)

	policy, err := cfg.FloorPolicy()
	assert.NoError(t, err)
	assert.True(t, policy.Enabled)
	assert.True(t, policy.Floor.IsZero())
	assert.True(t, policy.Exempt[domain.LeaveTypeSick])
	assert.False(t, policy.Exempt[domain.LeaveTypeAnnual])
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("LEDGER_BALANCE_FLOOR", "-2.5")
	t.Setenv("LEDGER_FLOOR_EXEMPT_TYPES", "personal,compensatory")
	t.Setenv("APP_TIMEZONE", "Asia/Jakarta")

	cfg, err := LoadConfig()
	assert.NoError(t, err)

	policy, err := cfg.FloorPolicy()
	assert.NoError(t, err)
	assert.Equal(t, "-2.50", policy.Floor.StringFixed(2))
	assert.True(t, policy.Exempt[domain.LeaveTypePersonal])
	assert.True(t, policy.Exempt[domain.LeaveTypeCompensatory])
	assert.False(t, policy.Exempt[domain.LeaveTypeSick])

	loc, err := cfg.Location()
	assert.NoError(t, err)
	assert.Equal(t, "Asia/Jakarta", loc.String())
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Run("floor", func(t *testing.T) {
		t.Setenv("LEDGER_BALANCE_FLOOR", "lots")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("exempt type", func(t *testing.T) {
		t.Setenv("LEDGER_FLOOR_EXEMPT_TYPES", "UNPAID")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("timezone", func(t *testing.T) {
		t.Setenv("APP_TIMEZONE", "Mars/Olympus")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestConfig_Require(t *testing.T) {
	cfg := &Config{}
	assert.EqualError(t, cfg.RequireAPI(), "JWT_SECRET is required")
	assert.EqualError(t, cfg.RequireKafka(), "KAFKA_BROKER is required")

	cfg.JWTSecret = "s"
	cfg.KafkaBroker = "localhost:9092"
	assert.NoError(t, cfg.RequireAPI())
	assert.NoError(t, cfg.RequireKafka())
}

func TestNewLogger(t *testing.T) {
	_, err := NewLogger(&Config{LogLevel: "debug"})
	assert.NoError(t, err)

	_, err = NewLogger(&Config{LogLevel: "loud", AppEnv: "production"})
	assert.Error(t, err)
}
