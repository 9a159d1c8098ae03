package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tidewell/scheduler/internal/model"
	"github.com/tidewell/scheduler/internal/store"
	"github.com/tidewell/scheduler/internal/store/storetest"
)

func makeStore(t *testing.T) store.Appointments {
	t.Helper()
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "data", "appointments.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_Compliance(t *testing.T) {
	storetest.Run(t, makeStore)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "appointments.db")

	s, err := New(ctx, path)
	require.NoError(t, err)
	id, err := s.Create(ctx, model.Document{Title: "Gym",
		StartDate: mustTime(t, "2024-05-06T09:00"), EndDate: mustTime(t, "2024-05-06T10:00")})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = New(ctx, path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()
	docs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, id, docs[0].ID)
	require.NoError(t, s.HealthPing(ctx))
}

func mustTime(t *testing.T, s string) (out time.Time) {
	t.Helper()
	out, err := time.Parse(model.DateLayout, s)
	require.NoError(t, err)
	return out
}
