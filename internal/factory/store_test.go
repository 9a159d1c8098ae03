package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewell/scheduler/internal/config"
	"github.com/tidewell/scheduler/internal/store/httpstore"
	"github.com/tidewell/scheduler/internal/store/memory"
	"github.com/tidewell/scheduler/internal/store/sqlstore"
)

func TestNewStore(t *testing.T) {
	ctx := context.Background()
	log := zerolog.Nop()

	t.Run("memory", func(t *testing.T) {
		cfg := config.NewForTesting()
		s, c, err := NewStore(ctx, cfg, log)
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, s)
		assert.NoError(t, c.Close())
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := config.NewForTesting()
		cfg.StoreDriver = config.DriverSQLite
		cfg.SQLitePath = filepath.Join(t.TempDir(), "nested", "a.db")
		s, c, err := NewStore(ctx, cfg, log)
		require.NoError(t, err)
		assert.IsType(t, &sqlstore.Store{}, s)
		docs, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, docs)
		assert.NoError(t, c.Close())
	})

	t.Run("http", func(t *testing.T) {
		cfg := config.NewForTesting()
		cfg.StoreDriver = config.DriverHTTP
		cfg.StoreURL = "http://127.0.0.1:1"
		s, _, err := NewStore(ctx, cfg, log)
		require.NoError(t, err)
		assert.IsType(t, &httpstore.Client{}, s)
	})

	t.Run("postgres without dsn", func(t *testing.T) {
		cfg := config.NewForTesting()
		cfg.StoreDriver = config.DriverPostgres
		_, _, err := NewStore(ctx, cfg, log)
		assert.Error(t, err)
	})

	t.Run("unknown", func(t *testing.T) {
		cfg := config.NewForTesting()
		cfg.StoreDriver = "cassandra"
		_, _, err := NewStore(ctx, cfg, log)
		assert.Error(t, err)
	})
}
