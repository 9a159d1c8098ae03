// Package factory builds the configured store backend.
package factory

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/tidewell/scheduler/internal/config"
	"github.com/tidewell/scheduler/internal/store"
	"github.com/tidewell/scheduler/internal/store/httpstore"
	"github.com/tidewell/scheduler/internal/store/memory"
	"github.com/tidewell/scheduler/internal/store/postgres"
	"github.com/tidewell/scheduler/internal/store/sqlite"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var nopCloser = closerFunc(func() error { return nil })

// NewStore returns the backend selected by cfg.StoreDriver together with a
// closer releasing its resources. SQL backends have their schema ensured
// before returning.
func NewStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (store.Appointments, io.Closer, error) {
	l := log.With().Str("driver", cfg.StoreDriver).Logger()

	switch cfg.StoreDriver {
	case config.DriverMemory:
		l.Debug().Msg("using in-memory store")
		return memory.New(), nopCloser, nil

	case config.DriverSQLite, "":
		s, err := sqlite.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		l.Debug().Str("path", cfg.SQLitePath).Msg("sqlite store opened")
		return s, s, nil

	case config.DriverPostgres:
		if cfg.PostgresDSN == "" {
			return nil, nil, fmt.Errorf("SCHEDULER_POSTGRES_DSN is required when STORE_DRIVER=postgres")
		}
		s, err := postgres.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		l.Debug().Msg("postgres store opened")
		return s, s, nil

	case config.DriverHTTP:
		l.Debug().Str("url", cfg.StoreURL).Msg("using store service")
		return httpstore.New(cfg.StoreURL, cfg.RequestTimeout), nopCloser, nil

	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER: %s", cfg.StoreDriver)
	}
}
