package config

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("USER_API_KEY", "123:user")
	t.Setenv("ADMIN_API_KEY", "456:admin")
	t.Setenv("ADMIN_CHAT_ID", "987654321")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:user", cfg.UserBotToken)
	assert.Equal(t, "456:admin", cfg.AdminBotToken)
	assert.Equal(t, int64(987654321), cfg.AdminChatID)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, "asheddb", cfg.DBName)
	assert.Equal(t, 10, cfg.DBMaxConns)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, 30*time.Second, cfg.PollTimeout)
	assert.Equal(t, time.Second, cfg.IdleDelay)
	assert.Equal(t, 5*time.Second, cfg.ErrorBackoff)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_CONNECTION_LIMIT", "25")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("POLL_TIMEOUT", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, 25, cfg.DBMaxConns)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 10*time.Second, cfg.PollTimeout)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("USER_API_KEY", "123:user")
	t.Setenv("ADMIN_CHAT_ID", "1")
	// t.Setenv registers the restore; the unset makes the variable truly
	// absent rather than set-but-empty.
	t.Setenv("ADMIN_API_KEY", "")
	os.Unsetenv("ADMIN_API_KEY")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "parse env"))
}

func TestDSN(t *testing.T) {
	cfg := Config{
		DBHost:     "db",
		DBPort:     5433,
		DBUser:     "ashed",
		DBPassword: "secret",
		DBName:     "asheddb",
		DBSSLMode:  "require",
	}
	assert.Equal(t,
		"host=db port=5433 user=ashed password=secret dbname=asheddb sslmode=require",
		cfg.DSN())
}
