package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port          string
	DBURL         string
	LogLevel      string
	DBMaxConns    int
	DBAutomigrate bool

	RedisAddr      string
	RedisDB        int
	WalletCacheTTL time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	JWTSecret string

	Wallet WalletConfig
}

// WalletConfig holds the controller level limits shown to users before they
// top up or withdraw.
type WalletConfig struct {
	Currency      string
	MinDeposit    decimal.Decimal
	MaxDeposit    decimal.Decimal
	MinWithdrawal decimal.Decimal
	MaxWithdrawal decimal.Decimal
	MaxRetries    int
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load("config.env")

	cfg := &Config{
		Port:     getString("APP_PORT", "8080"),
		LogLevel: os.Getenv("LOG_LEVEL"),
		DBURL: fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s",
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_HOST"),
			os.Getenv("DB_PORT"),
			os.Getenv("DB_NAME"),
			getString("DB_SSLMODE", "disable"),
		),
		DBMaxConns:     getInt("DB_MAX_CONNS", 8),
		DBAutomigrate:  getBool("DB_AUTOMIGRATE", true),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisDB:        getInt("REDIS_DB", 0),
		WalletCacheTTL: getDuration("WALLET_CACHE_TTL", 5*time.Minute),
		KafkaTopic:     getString("KAFKA_TOPIC", "wallet.ledger"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	var err error
	cfg.Wallet.Currency = getString("WALLET_CURRENCY", "USD")
	cfg.Wallet.MaxRetries = getInt("WALLET_MAX_RETRIES", 3)
	if cfg.Wallet.MinDeposit, err = getDecimal("WALLET_MIN_DEPOSIT", "5.00"); err != nil {
		return nil, err
	}
	if cfg.Wallet.MaxDeposit, err = getDecimal("WALLET_MAX_DEPOSIT", "1000.00"); err != nil {
		return nil, err
	}
	if cfg.Wallet.MinWithdrawal, err = getDecimal("WALLET_MIN_WITHDRAWAL", "10.00"); err != nil {
		return nil, err
	}
	if cfg.Wallet.MaxWithdrawal, err = getDecimal("WALLET_MAX_WITHDRAWAL", "5000.00"); err != nil {
		return nil, err
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	return cfg, nil
}

func getString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getDecimal(key, def string) (decimal.Decimal, error) {
	v := getString(key, def)
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
