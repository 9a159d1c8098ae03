package store_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/tidewell/scheduler/internal/model"
	"github.com/tidewell/scheduler/internal/store"
	"github.com/tidewell/scheduler/internal/store/memory"
)

type listOnly struct{ err error }

func (l listOnly) List(context.Context) ([]model.StoredDocument, error) { return nil, l.err }
func (listOnly) Create(context.Context, model.Document) (string, error) { return "", nil }
func (listOnly) Update(context.Context, string, model.Changes) error    { return nil }
func (listOnly) Delete(context.Context, string) error                   { return nil }

func TestHealthChecker_UsesPinger(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hc := store.NewHealthChecker(memory.New(), zerolog.Nop(), time.Second)
	assert.False(t, hc.IsHealthy())
	go hc.Start(ctx, 10*time.Millisecond)
	assert.Eventually(t, hc.IsHealthy, time.Second, 5*time.Millisecond)
}

func TestHealthChecker_FallsBackToList(t *testing.T) {
	hc := store.NewHealthChecker(listOnly{}, zerolog.Nop(), time.Second)
	assert.NoError(t, hc.Probe(context.Background()))

	hc = store.NewHealthChecker(listOnly{err: stderrors.New("down")}, zerolog.Nop(), time.Second)
	assert.Error(t, hc.Probe(context.Background()))
}
