package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the trade hall engine.
type Config struct {
	Port     int
	LogLevel string

	RequestTTL      time.Duration // trade request lifetime
	TradeTTL        time.Duration // accepted trade lifetime
	AuctionDuration time.Duration // default auction listing duration
	AuctionFeeRate  float64
	SweepInterval   time.Duration

	TradeHistoryLimit   int // per-character completed-trade window
	ShopHistoryLimit    int // per-character shop transaction window
	AuctionHistoryLimit int // per-seller auction window

	CatalogPath string // TOML catalog file; empty uses the embedded default

	WebhookTimeout  time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	if !isValidLogLevel(logLevel) {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	requestTTL, err := getDuration("REQUEST_TTL", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TTL: %w", err)
	}

	tradeTTL, err := getDuration("TRADE_TTL", 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("invalid TRADE_TTL: %w", err)
	}

	auctionDuration, err := getDuration("AUCTION_DURATION", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("invalid AUCTION_DURATION: %w", err)
	}

	feeRate, err := getFloat("AUCTION_FEE_RATE", 0.05)
	if err != nil {
		return nil, fmt.Errorf("invalid AUCTION_FEE_RATE: %w", err)
	}
	if feeRate < 0 || feeRate > 1 {
		return nil, fmt.Errorf("invalid AUCTION_FEE_RATE: %v, must be within [0,1]", feeRate)
	}

	sweepInterval, err := getDuration("SWEEP_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL: %w", err)
	}

	tradeHistoryLimit, err := getInt("TRADE_HISTORY_LIMIT", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid TRADE_HISTORY_LIMIT: %w", err)
	}

	shopHistoryLimit, err := getInt("SHOP_HISTORY_LIMIT", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid SHOP_HISTORY_LIMIT: %w", err)
	}

	auctionHistoryLimit, err := getInt("AUCTION_HISTORY_LIMIT", 50)
	if err != nil {
		return nil, fmt.Errorf("invalid AUCTION_HISTORY_LIMIT: %w", err)
	}

	for name, v := range map[string]int{
		"TRADE_HISTORY_LIMIT":   tradeHistoryLimit,
		"SHOP_HISTORY_LIMIT":    shopHistoryLimit,
		"AUCTION_HISTORY_LIMIT": auctionHistoryLimit,
	} {
		if v < 1 {
			return nil, fmt.Errorf("invalid %s: must be >= 1", name)
		}
	}

	webhookTimeout, err := getDuration("WEBHOOK_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WEBHOOK_TIMEOUT: %w", err)
	}

	readTimeout, err := getDuration("READ_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := getDuration("WRITE_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}

	idleTimeout, err := getDuration("IDLE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}

	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	return &Config{
		Port:                port,
		LogLevel:            logLevel,
		RequestTTL:          requestTTL,
		TradeTTL:            tradeTTL,
		AuctionDuration:     auctionDuration,
		AuctionFeeRate:      feeRate,
		SweepInterval:       sweepInterval,
		TradeHistoryLimit:   tradeHistoryLimit,
		ShopHistoryLimit:    shopHistoryLimit,
		AuctionHistoryLimit: auctionHistoryLimit,
		CatalogPath:         getStr("CATALOG_PATH", ""),
		WebhookTimeout:      webhookTimeout,
		ReadTimeout:         readTimeout,
		WriteTimeout:        writeTimeout,
		IdleTimeout:         idleTimeout,
		ShutdownTimeout:     shutdownTimeout,
	}, nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getFloat(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.ParseFloat(v, 64)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
