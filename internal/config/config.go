// internal/config/config.go
package config

import (
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
)

// Config carries the server's environment-driven settings. A .env file in
// the working directory is loaded automatically before reading.
type Config struct {
	Port             string
	LogLevel         string
	CORSOrigin       string
	RedisAddr        string
	RedisDB          int
	MetricsNamespace string
}

// Load reads configuration from the environment, applying defaults for
// anything unset. RedisAddr left empty selects the in-memory session store.
func Load() Config {
	return Config{
		Port:             getenv("PORT", "8080"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		CORSOrigin:       getenv("CORS_ORIGIN", "*"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisDB:          getenvInt("REDIS_DB", 0),
		MetricsNamespace: getenv("METRICS_NAMESPACE", "cardtable"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
