package config

import (
	"fmt"
	"os"
	"strconv"
)

// Store backend selectors.
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Config holds the sentinela-alert service configuration.
type Config struct {
	// Record-store backend: redis, postgres or memory.
	Store struct {
		Backend string
	}

	Database struct {
		Host     string
		Port     int
		User     string
		Password string
		Database string
		SSLMode  string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	// MQTT side channel for local notifications. Disabled when Broker is empty.
	MQTT struct {
		Broker      string
		ClientID    string
		Username    string
		Password    string
		QoS         byte
		TopicPrefix string
	}

	// Push gateway for outbound notifications. Disabled when GatewayURL is
	// empty. Delivery is best-effort; there is no delivery guarantee.
	Push struct {
		GatewayURL     string
		TimeoutSeconds int
		RetryCount     int
	}

	Scheduler struct {
		PollInterval     int // seconds between due-dose checks
		DueWindowMinutes int // how far ahead a dose counts as due
		CountdownSeconds int // auto-confirm window for emergency/health-check
		DedupKeyPrefix   string
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load reads the configuration from environment variables, falling back to
// development defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Store.Backend = getEnv("STORE_BACKEND", BackendRedis)
	switch cfg.Store.Backend {
	case BackendRedis, BackendPostgres, BackendMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND: %s", cfg.Store.Backend)
	}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "sentinela")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "sentinela-alert")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.QoS = byte(getEnvInt("MQTT_QOS", 1))
	cfg.MQTT.TopicPrefix = getEnv("MQTT_TOPIC_PREFIX", "sentinela/notificacoes/")

	cfg.Push.GatewayURL = getEnv("PUSH_GATEWAY_URL", "")
	cfg.Push.TimeoutSeconds = getEnvInt("PUSH_TIMEOUT", 10)
	cfg.Push.RetryCount = getEnvInt("PUSH_RETRY_COUNT", 3)

	cfg.Scheduler.PollInterval = getEnvInt("SCHEDULER_POLL_INTERVAL", 60)
	cfg.Scheduler.DueWindowMinutes = getEnvInt("SCHEDULER_DUE_WINDOW", 5)
	cfg.Scheduler.CountdownSeconds = getEnvInt("SCHEDULER_COUNTDOWN", 30)
	cfg.Scheduler.DedupKeyPrefix = getEnv("SCHEDULER_DEDUP_PREFIX", "sentinela:notificado:")

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	return cfg, nil
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
