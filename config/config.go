package config

import (
	"os"
	"strings"
	"time"
)

type Config struct {
	Port           string
	Env            string
	CartAPIURL     string
	CatalogAPIURL  string
	WishlistAPIURL string
	AccountAPIURL  string
	RedisURL       string
	KafkaBrokers   string
	KafkaTopic     string
	RequestTimeout time.Duration
	// ConflictGraceDelay is how long an out-of-stock item stays visible
	// (with its notification) before it is auto-removed from the cart.
	ConflictGraceDelay time.Duration
	CatalogCacheTTL    time.Duration
	NotificationTTL    time.Duration
}

func Load() Config {
	return Config{
		Port:               getEnv("PORT", "8090"),
		Env:                getEnv("APP_ENV", "development"),
		CartAPIURL:         getEnv("CART_API_URL", "http://api-gateway:8080"),
		CatalogAPIURL:      getEnv("CATALOG_API_URL", "http://api-gateway:8080"),
		WishlistAPIURL:     getEnv("WISHLIST_API_URL", "http://api-gateway:8080"),
		AccountAPIURL:      getEnv("ACCOUNT_API_URL", "http://api-gateway:8080"),
		RedisURL:           getEnv("REDIS_URL", "redis://redis:6379"),
		KafkaBrokers:       getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:         getEnv("KAFKA_TOPIC", "cart.activity"),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 10*time.Second),
		ConflictGraceDelay: getDuration("CONFLICT_GRACE_DELAY", 3*time.Second),
		CatalogCacheTTL:    getDuration("CATALOG_CACHE_TTL", 10*time.Minute),
		NotificationTTL:    getDuration("NOTIFICATION_TTL", 24*time.Hour),
	}
}

// Brokers splits the comma-separated broker list; empty means Kafka disabled.
func (c Config) Brokers() []string {
	if c.KafkaBrokers == "" {
		return nil
	}
	return strings.Split(c.KafkaBrokers, ",")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
