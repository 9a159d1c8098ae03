package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tidewell/scheduler/internal/store"
	"github.com/tidewell/scheduler/internal/store/storetest"
)

func TestMemoryStore_Compliance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Appointments { return New() })
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, New().HealthPing(ctx), context.Canceled)
}
