package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string

	ProductServiceURL      string
	UserServiceURL         string
	NotificationServiceURL string
	// AuthServiceURL disables authentication when empty.
	AuthServiceURL string

	// RedisAddr disables the product cache when empty.
	RedisAddr string
	// ProductCacheTTL bounds how stale a cached product price may be.
	ProductCacheTTL time.Duration

	EnrichWorkers        int
	ProductLookupTimeout time.Duration

	HTTPClientTimeout    time.Duration
	HTTPClientMaxRetries int

	DefaultCurrency currency.Unit

	LogLevel slog.Level

	ServiceName  string
	OTLPEndpoint string

	ShutdownTimeout time.Duration
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("godotenv.Load: %w", err)
	}

	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	r := reader{lookup: lookup}

	cfg := Config{
		HTTPAddr:    r.getString("HTTP_ADDR", ":8080"),
		DatabaseURL: r.getString("DATABASE_URL", ""),

		ProductServiceURL:      trimSlash(r.getString("PRODUCT_SERVICE_URL", "")),
		UserServiceURL:         trimSlash(r.getString("USER_SERVICE_URL", "")),
		NotificationServiceURL: trimSlash(r.getString("NOTIFICATION_SERVICE_URL", "")),
		AuthServiceURL:         trimSlash(r.getString("AUTH_SERVICE_URL", "")),

		RedisAddr:       r.getString("REDIS_ADDR", ""),
		ProductCacheTTL: r.getDuration("PRODUCT_CACHE_TTL", 5*time.Second),

		EnrichWorkers:        r.getInt("ENRICH_WORKERS", 32),
		ProductLookupTimeout: r.getDuration("PRODUCT_LOOKUP_TIMEOUT", 2*time.Second),

		HTTPClientTimeout:    r.getDuration("HTTP_CLIENT_TIMEOUT", 5*time.Second),
		HTTPClientMaxRetries: r.getInt("HTTP_CLIENT_MAX_RETRIES", 2),

		DefaultCurrency: r.getCurrency("DEFAULT_CURRENCY", currency.USD),

		LogLevel: r.getLogLevel("LOG_LEVEL", slog.LevelInfo),

		ServiceName:  r.getString("OTEL_SERVICE_NAME", "order-service"),
		OTLPEndpoint: r.getString("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		ShutdownTimeout: r.getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := errors.Join(r.errs...); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("cfg.Validate: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	required := []struct {
		name  string
		value string
	}{
		{"DATABASE_URL", c.DatabaseURL},
		{"PRODUCT_SERVICE_URL", c.ProductServiceURL},
		{"USER_SERVICE_URL", c.UserServiceURL},
		{"NOTIFICATION_SERVICE_URL", c.NotificationServiceURL},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is empty", r.name))
		}
	}

	if c.EnrichWorkers < 1 {
		errs = append(errs, fmt.Errorf("ENRICH_WORKERS[%d] must be positive", c.EnrichWorkers))
	}
	if c.ProductLookupTimeout <= 0 {
		errs = append(errs, fmt.Errorf("PRODUCT_LOOKUP_TIMEOUT[%s] must be positive", c.ProductLookupTimeout))
	}
	if c.HTTPClientTimeout <= 0 {
		errs = append(errs, fmt.Errorf("HTTP_CLIENT_TIMEOUT[%s] must be positive", c.HTTPClientTimeout))
	}
	if c.HTTPClientMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("HTTP_CLIENT_MAX_RETRIES[%d] must not be negative", c.HTTPClientMaxRetries))
	}

	return errors.Join(errs...)
}

func (c Config) AuthEnabled() bool {
	return c.AuthServiceURL != ""
}

func (c Config) CacheEnabled() bool {
	return c.RedisAddr != "" && c.ProductCacheTTL > 0
}

func (c Config) TracingEnabled() bool {
	return c.OTLPEndpoint != ""
}

type reader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *reader) getString(key, fallback string) string {
	if v, ok := r.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func (r *reader) getInt(key string, fallback int) int {
	v := r.getString(key, "")
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s[%s] is not an integer", key, v))
		return fallback
	}
	return n
}

func (r *reader) getDuration(key string, fallback time.Duration) time.Duration {
	v := r.getString(key, "")
	if v == "" {
		return fallback
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s[%s] is not a duration", key, v))
		return fallback
	}
	return d
}

func (r *reader) getCurrency(key string, fallback currency.Unit) currency.Unit {
	v := r.getString(key, "")
	if v == "" {
		return fallback
	}

	unit, err := currency.ParseISO(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s[%s] is not a currency", key, v))
		return fallback
	}
	return unit
}

func (r *reader) getLogLevel(key string, fallback slog.Level) slog.Level {
	v := r.getString(key, "")
	if v == "" {
		return fallback
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s[%s] is not a log level", key, v))
		return fallback
	}
	return level
}

func trimSlash(s string) string {
	return strings.TrimRight(s, "/")
}
