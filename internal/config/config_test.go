package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, 9, cfg.DayStartHour)
	assert.Equal(t, 19, cfg.DayEndHour)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 4, cfg.Queue.Shards)
	assert.Equal(t, ":8080", cfg.GetHTTPAddr())
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("SCHEDULER_STORE_DRIVER", "memory")
	t.Setenv("SCHEDULER_HTTP_PORT", "9191")
	t.Setenv("SCHEDULER_TIMEZONE", "Europe/Berlin")
	t.Setenv("SCHEDULER_SQ_SHARDS", "8")
	t.Setenv("SCHEDULER_SQ_MAX_ATTEMPTS", "2")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, 9191, cfg.HTTPPort)
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())
	assert.Equal(t, 8, cfg.Queue.Shards)
	assert.Equal(t, 2, cfg.Queue.MaxAttempts)
}

func TestResolveDefaults_Rejects(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown driver", Config{StoreDriver: "mongo", DayStartHour: 9, DayEndHour: 19}},
		{"postgres without dsn", Config{StoreDriver: DriverPostgres, DayStartHour: 9, DayEndHour: 19}},
		{"http without url", Config{StoreDriver: DriverHTTP, DayStartHour: 9, DayEndHour: 19}},
		{"inverted hours", Config{StoreDriver: DriverMemory, DayStartHour: 19, DayEndHour: 9}},
		{"bad timezone", Config{StoreDriver: DriverMemory, DayStartHour: 9, DayEndHour: 19, Timezone: "Mars/Olympus"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			assert.Error(t, cfg.ResolveDefaults())
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SCHEDULER_DAY_START_HOUR=8\n"), 0o600))
	t.Setenv("SCHEDULER_DAY_START_HOUR", "")
	require.NoError(t, os.Unsetenv("SCHEDULER_DAY_START_HOUR"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.DayStartHour)
}

func TestNewForTesting(t *testing.T) {
	cfg := NewForTesting()
	assert.True(t, cfg.IsTesting())
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.Equal(t, time.UTC, cfg.Location())
}
