package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/laaraari2/theatre-management-system-sub001/pkg/db"
)

// Store backends for the month catalog and the activities
const (
	StoreMySQL  = "mysql"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

type Config struct {
	ServiceName  string
	HTTPPort     string
	CatalogStore string
	DB           db.Config
	Redis        RedisConfig
}

type RedisConfig struct {
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port for redis.Options
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

func Load() *Config {
	return &Config{
		ServiceName:  getEnv("SERVICE_NAME", "calendar-service"),
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		CatalogStore: strings.ToLower(getEnv("CATALOG_STORE", StoreMySQL)),
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 3306),
			User:     getEnv("DB_USER", "root"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_DATABASE", "theatre_db"),

			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", db.DefaultMaxOpenConns),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", db.DefaultMaxIdleConns),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", db.DefaultConnMaxLifetime),
			ConnectAttempts: getEnvInt("DB_CONNECT_ATTEMPTS", db.DefaultConnectAttempts),
			RetryDelay:      getEnvDuration("DB_RETRY_DELAY", db.DefaultRetryDelay),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvDuration reads Go durations such as "90s" or "5m"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
