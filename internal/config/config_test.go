package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"CONFIG_FILE", "DB_DRIVER", "HTTP_ADDR", "KAFKA_BROKERS", "REQUEST_TIMEOUT", "BOT_TOKEN"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Empty(t, cfg.BotToken)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "http_addr: \":8080\"\nlog_level: debug\nrequest_timeout: 3s\nkafka_topic: kitchen\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("KAFKA_TOPIC", "")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "kitchen", cfg.KafkaTopic)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
}

func TestValidate(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		cfg := Default()
		cfg.DBDriver = "mysql"
		assert.Error(t, cfg.Validate())
	})

	t.Run("postgres requires db name", func(t *testing.T) {
		cfg := Default()
		cfg.DBDriver = "postgres"
		assert.Error(t, cfg.Validate())

		cfg.DBName = "bites"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("bad timeout env", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", "")
		t.Setenv("DB_DRIVER", "")
		t.Setenv("REQUEST_TIMEOUT", "soon")
		_, err := Load()
		assert.Error(t, err)
	})
}

func TestPostgresDSN(t *testing.T) {
	cfg := Default()
	cfg.DBUser = "bites"
	cfg.DBPass = "secret"
	cfg.DBName = "orders"

	assert.Equal(t, "host=localhost port=5432 user=bites password=secret dbname=orders sslmode=disable", cfg.PostgresDSN())
}
