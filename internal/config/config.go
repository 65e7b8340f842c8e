package config

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// DiscountTier maps a minimum order quantity to a discount fraction.
type DiscountTier struct {
	MinQuantity int
	Percentage  float64
}

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	RedisURL    string

	DeviceName     string
	DevicePrice    float64
	DeviceWeightKg float64

	ShippingRatePerKgPerKm float64
	MaxShippingFraction    float64
	DiscountTiers          []DiscountTier

	OrderNumberMaxAttempts int
	CORSAllowedOrigins     []string
	IdempotencyTTL         time.Duration
	RateLimitWindow        time.Duration
	RateLimitMax           int
	MigrateOnStart         bool
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	tiers, err := parseTiers(valueOrDefault(k.String("DISCOUNT_TIERS"), "250:0.20,100:0.15,50:0.10,25:0.05"))
	if err != nil {
		return nil, fmt.Errorf("parse DISCOUNT_TIERS: %w", err)
	}

	cfg := &Config{
		AppEnv:      valueOrDefault(k.String("APP_ENV"), "development"),
		Port:        valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL: k.String("DATABASE_URL"),
		RedisURL:    k.String("REDIS_URL"),

		DeviceName:     valueOrDefault(k.String("DEVICE_NAME"), "SCOS Station P1 Pro"),
		DevicePrice:    parseFloat(k.String("DEVICE_PRICE"), 150),
		DeviceWeightKg: parseFloat(k.String("DEVICE_WEIGHT_KG"), 0.365),

		ShippingRatePerKgPerKm: parseFloat(k.String("SHIPPING_RATE_PER_KG_PER_KM"), 0.01),
		MaxShippingFraction:    parseFloat(k.String("MAX_SHIPPING_PCT"), 0.15),
		DiscountTiers:          tiers,

		OrderNumberMaxAttempts: parseInt(k.String("ORDER_NUMBER_MAX_ATTEMPTS"), 3),
		CORSAllowedOrigins:     splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),
		IdempotencyTTL:         parseDuration(k.String("IDEMPOTENCY_TTL"), "24h"),
		RateLimitWindow:        parseDuration(k.String("RATE_LIMIT_WINDOW"), "1m"),
		RateLimitMax:           parseInt(k.String("RATE_LIMIT_MAX"), 120),
		MigrateOnStart:         parseBool(k.String("MIGRATE_ON_START")),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.DevicePrice <= 0 {
		return nil, errors.New("DEVICE_PRICE must be positive")
	}
	if cfg.DeviceWeightKg <= 0 {
		return nil, errors.New("DEVICE_WEIGHT_KG must be positive")
	}
	if cfg.MaxShippingFraction <= 0 || cfg.MaxShippingFraction > 1 {
		return nil, errors.New("MAX_SHIPPING_PCT must be in (0, 1]")
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// parseTiers decodes "minQty:fraction" pairs and returns them sorted
// descending by minimum quantity, the order the pricing engine expects.
func parseTiers(value string) ([]DiscountTier, error) {
	parts := strings.Split(value, ",")
	tiers := make([]DiscountTier, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		fields := strings.SplitN(trimmed, ":", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("malformed tier %q", trimmed)
		}
		minQty, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return nil, fmt.Errorf("tier %q: %w", trimmed, err)
		}
		pct, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("tier %q: %w", trimmed, err)
		}
		if minQty <= 0 || pct < 0 || pct >= 1 {
			return nil, fmt.Errorf("tier %q out of range", trimmed)
		}
		tiers = append(tiers, DiscountTier{MinQuantity: minQty, Percentage: pct})
	}
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].MinQuantity > tiers[j].MinQuantity
	})
	return tiers, nil
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseFloat(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return n
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
