package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"APP_PORT", "DB_SSLMODE", "DB_MAX_CONNS", "DB_AUTOMIGRATE", "REDIS_ADDR", "WALLET_CACHE_TTL",
		"KAFKA_BROKERS", "WALLET_CURRENCY", "WALLET_MIN_DEPOSIT", "WALLET_MAX_DEPOSIT",
		"WALLET_MIN_WITHDRAWAL", "WALLET_MAX_WITHDRAWAL", "WALLET_MAX_RETRIES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_NAME", "wallets")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres://postgres:pw@localhost:5432/wallets?sslmode=disable", cfg.DBURL)
	assert.Equal(t, 8, cfg.DBMaxConns)
	assert.Equal(t, 5*time.Minute, cfg.WalletCacheTTL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "USD", cfg.Wallet.Currency)
	assert.True(t, cfg.Wallet.MinDeposit.Equal(decimal.NewFromInt(5)))
	assert.True(t, cfg.Wallet.MaxDeposit.Equal(decimal.NewFromInt(1000)))
	assert.True(t, cfg.Wallet.MinWithdrawal.Equal(decimal.NewFromInt(10)))
	assert.True(t, cfg.Wallet.MaxWithdrawal.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, 3, cfg.Wallet.MaxRetries)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("WALLET_MAX_DEPOSIT", "250.50")
	t.Setenv("WALLET_CACHE_TTL", "30s")
	t.Setenv("DB_AUTOMIGRATE", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.Wallet.MaxDeposit.Equal(decimal.RequireFromString("250.50")))
	assert.Equal(t, 30*time.Second, cfg.WalletCacheTTL)
	assert.False(t, cfg.DBAutomigrate)
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "")
	_, err := LoadConfig()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("WALLET_MIN_WITHDRAWAL", "ten")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "WALLET_MIN_WITHDRAWAL")
}
