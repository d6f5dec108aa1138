package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/hrdesk/internal/store"
)

const sampleConfig = `
[server]
port = ":5000"
shutdown_timeout = "3s"

[database]
dsn = "postgres://hr:hr@localhost:5432/hr?sslmode=disable"

[cache]
redis_url = "redis://localhost:6379/0"
ttl = "90s"

[bot]
token = "123:abc"
admin_ids = [42, 43]

[[gsheet]]
sheet_id = "sheet-1"
sheet_name = "Today"
range = "A1"
credentials_path = "creds.json"
schedule = "*/15 * * * *"
`

func TestParseConfig(t *testing.T) {
	t.Setenv("HRDESK_DATABASE_DSN", "")
	t.Setenv("HRDESK_REDIS_URL", "")
	t.Setenv("HRDESK_BOT_TOKEN", "")

	config, err := ParseConfig("config.toml", []byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, ":5000", config.Server.Port)
	assert.Equal(t, 3*time.Second, config.Server.ShutdownTimeout.Duration)
	assert.Equal(t, "postgres://hr:hr@localhost:5432/hr?sslmode=disable", config.Database.DSN)
	assert.Equal(t, 90*time.Second, config.Cache.TTL.Duration)
	assert.Equal(t, "hrdesk", config.Cache.KeyPrefix)
	assert.Equal(t, []int64{42, 43}, config.Bot.AdminIDs)
	require.Len(t, config.GSheet, 1)
	assert.Equal(t, "*/15 * * * *", config.GSheet[0].Schedule)
}

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("HRDESK_DATABASE_DSN", "")

	config, err := ParseConfig("config.toml", []byte("[server]\nport = \":5000\"\n"))
	require.NoError(t, err)

	assert.Equal(t, "hrms.db", config.Database.DSN)
	assert.Equal(t, 10*time.Second, config.Server.ShutdownTimeout.Duration)
	assert.Equal(t, 5*time.Minute, config.Cache.TTL.Duration)
	assert.Empty(t, config.Cache.RedisURL)
}

func TestParseConfigEnvOverrides(t *testing.T) {
	t.Setenv("HRDESK_DATABASE_DSN", "file:test.db")
	t.Setenv("HRDESK_REDIS_URL", "redis://cache:6379/1")
	t.Setenv("HRDESK_BOT_TOKEN", "env-token")

	config, err := ParseConfig("config.toml", []byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "file:test.db", config.Database.DSN)
	assert.Equal(t, "redis://cache:6379/1", config.Cache.RedisURL)
	assert.Equal(t, "env-token", config.Bot.Token)
}

func TestParseConfigErrors(t *testing.T) {
	t.Run("missing port", func(t *testing.T) {
		_, err := ParseConfig("config.toml", []byte("[database]\ndsn = \"hr.db\"\n"))
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := ParseConfig("config.toml", []byte("[server]\nport = \":5000\"\nshutdown_timeout = \"soon\"\n"))
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("HRDESK_DATABASE_DSN", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":5000", config.Server.Port)
}

func TestDetectDBType(t *testing.T) {
	assert.Equal(t, store.DBTypePostgres, DetectDBType("postgres://u:p@localhost/hr"))
	assert.Equal(t, store.DBTypePostgres, DetectDBType("postgresql://u:p@localhost/hr"))
	assert.Equal(t, store.DBTypeSQLite, DetectDBType("hrms.db"))
	assert.Equal(t, store.DBTypeSQLite, DetectDBType(":memory:"))
}
