package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MetricsAddr    string
	DatabaseURL    string
	DatabaseName   string
	StoreDriver    string // mongo|mysql
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	CacheTTL       time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	SeedWorkers    int
	RequestTimeout time.Duration
}

const (
	DriverMongo = "mongo"
	DriverMySQL = "mysql"
)

// Load reads an optional .env file, then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       httpAddr(),
		MetricsAddr:    env("METRICS_ADDR", ""),
		DatabaseURL:    env("DATABASE_URL", ""),
		DatabaseName:   env("DATABASE_NAME", ""),
		StoreDriver:    strings.ToLower(env("STORE_DRIVER", "")),
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		RateLimitRPS:   atof("RATE_LIMIT_RPS", 0),
		RateLimitBurst: atoi("RATE_LIMIT_BURST", 20),
		SeedWorkers:    atoi("SEED_WORKERS", 3),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
	}
	if c.StoreDriver == "" {
		c.StoreDriver = InferDriver(c.DatabaseURL)
	}
	if c.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL is empty; content endpoints will report the database as not configured")
	}
	return c
}

// InferDriver picks the store driver from the connection string scheme.
func InferDriver(url string) string {
	if strings.HasPrefix(url, "mongodb://") || strings.HasPrefix(url, "mongodb+srv://") {
		return DriverMongo
	}
	if url == "" {
		return DriverMongo
	}
	return DriverMySQL
}

// EnvPresence reports which database settings are set, for diagnostics.
func (c Config) EnvPresence() (urlSet, nameSet bool) {
	return c.DatabaseURL != "", c.DatabaseName != ""
}

func httpAddr() string {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		return v
	}
	return ":" + env("PORT", "8000")
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer setting")
	}
	return def
}

func atof(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric setting")
	}
	return def
}
