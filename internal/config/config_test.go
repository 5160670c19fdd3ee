package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, BackendRedis, cfg.Store.Backend)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "sentinela", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)

	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "", cfg.Redis.Password)
	assert.Equal(t, 0, cfg.Redis.DB)

	assert.Equal(t, "", cfg.MQTT.Broker)
	assert.Equal(t, "sentinela-alert", cfg.MQTT.ClientID)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.Equal(t, "sentinela/notificacoes/", cfg.MQTT.TopicPrefix)

	assert.Equal(t, "", cfg.Push.GatewayURL)
	assert.Equal(t, 10, cfg.Push.TimeoutSeconds)
	assert.Equal(t, 3, cfg.Push.RetryCount)

	assert.Equal(t, 60, cfg.Scheduler.PollInterval)
	assert.Equal(t, 5, cfg.Scheduler.DueWindowMinutes)
	assert.Equal(t, 30, cfg.Scheduler.CountdownSeconds)
	assert.Equal(t, "sentinela:notificado:", cfg.Scheduler.DedupKeyPrefix)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	os.Clearenv()
	os.Setenv("STORE_BACKEND", "postgres")
	os.Setenv("DB_HOST", "test-host")
	os.Setenv("DB_PORT", "5433")
	os.Setenv("REDIS_ADDR", "test-redis:6380")
	os.Setenv("MQTT_BROKER", "tcp://broker:1883")
	os.Setenv("PUSH_GATEWAY_URL", "https://push.example.com/send")
	os.Setenv("SCHEDULER_POLL_INTERVAL", "15")
	os.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendPostgres, cfg.Store.Backend)
	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "test-redis:6380", cfg.Redis.Addr)
	assert.Equal(t, "tcp://broker:1883", cfg.MQTT.Broker)
	assert.Equal(t, "https://push.example.com/send", cfg.Push.GatewayURL)
	assert.Equal(t, 15, cfg.Scheduler.PollInterval)
	assert.Equal(t, "debug", cfg.Log.Level)

	os.Clearenv()
}

func TestLoad_InvalidBackend(t *testing.T) {
	os.Clearenv()
	os.Setenv("STORE_BACKEND", "cassandra")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "invalid STORE_BACKEND")

	os.Clearenv()
}

func TestGetEnvInt(t *testing.T) {
	os.Clearenv()
	assert.Equal(t, 42, getEnvInt("TEST_INT", 42))

	os.Setenv("TEST_INT", "7")
	assert.Equal(t, 7, getEnvInt("TEST_INT", 42))

	os.Setenv("TEST_INT", "not-a-number")
	assert.Equal(t, 42, getEnvInt("TEST_INT", 42))

	os.Unsetenv("TEST_INT")
}
