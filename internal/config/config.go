package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Драйверы хранилища корзины
const (
	DriverSession  = "session"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Источники каталога
const (
	CatalogRemote = "remote"
	CatalogStatic = "static"
	CatalogMenu   = "menu"
	CatalogDB     = "db"
)

// Config — настройки приложения из окружения (.env)
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	SessionSecret string
	SessionName   string

	StorageDriver string
	CartKey       string

	DBDSN string

	RedisAddr string
	RedisDB   int
	RedisTTL  time.Duration

	CatalogSource   string
	CatalogURL      string
	CatalogLimit    int
	CatalogTimeout  time.Duration
	CatalogCacheTTL time.Duration
}

// Load грузит .env (текущая папка, родительская, корень репо) и читает окружение.
func Load() Config {
	_ = godotenv.Overload(".env", "../.env", "../../.env")
	return FromEnv()
}

// FromEnv читает только окружение, без .env
func FromEnv() Config {
	return Config{
		AppPort:  getEnv("APP_PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		SessionSecret: getEnv("SESSION_SECRET", "dev_fallback_secret"),
		SessionName:   getEnv("SESSION_NAME", "sf_session"),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", DriverSession)),
		CartKey:       getEnv("CART_KEY", "cart"),

		DBDSN: os.Getenv("DB_DSN"),

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisTTL:  getEnvDuration("REDIS_TTL", 0),

		CatalogSource:   strings.ToLower(getEnv("CATALOG_SOURCE", CatalogRemote)),
		CatalogURL:      getEnv("CATALOG_URL", "https://fakestoreapi.com/products"),
		CatalogLimit:    getEnvInt("CATALOG_LIMIT", 8),
		CatalogTimeout:  getEnvDuration("CATALOG_TIMEOUT", 5*time.Second),
		CatalogCacheTTL: getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
	}
}

// NeedsDB — нужен ли postgres для выбранных драйверов
func (c Config) NeedsDB() bool {
	return c.StorageDriver == DriverPostgres || c.CatalogSource == CatalogDB
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// getEnvDuration понимает "5s", "2m" и просто секунды ("30")
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
