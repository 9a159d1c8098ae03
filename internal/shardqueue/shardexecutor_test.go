package shardqueue

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidewell/scheduler/internal/errors"
)

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout")
	}
}

func TestShardExecutor_FIFOPerKey(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 4, QueueSize: 64})
	defer ex.Stop()

	var mu sync.Mutex
	got := map[string][]int{}
	for i := 0; i < 20; i++ {
		for _, key := range []string{"a", "b", "c"} {
			key, i := key, i
			require.NoError(t, ex.Submit(context.Background(), key, JobFunc(func(context.Context) error {
				mu.Lock()
				got[key] = append(got[key], i)
				mu.Unlock()
				return nil
			})))
		}
	}
	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, ex.Barrier(context.Background(), key))
	}

	mu.Lock()
	defer mu.Unlock()
	for key, seq := range got {
		require.Len(t, seq, 20, key)
		for i := range seq {
			assert.Equal(t, i, seq[i], "key %s out of order", key)
		}
	}
}

func TestShardExecutor_RetryRecoverable(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 10, MaxAttempts: 3, BaseBackoff: 5 * time.Millisecond})
	defer ex.Stop()

	var attempts int32
	finished := make(chan struct{})
	var final error
	job := Tracked(func(context.Context) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.NewNetworkError("create", context.DeadlineExceeded)
		}
		return nil
	}, func(err error) {
		final = err
		close(finished)
	})

	require.NoError(t, ex.Submit(context.Background(), "k1", job))
	waitFor(t, finished)
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	assert.NoError(t, final)
}

func TestShardExecutor_IrrecoverableFailsFast(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 1, MaxAttempts: 5, BaseBackoff: 5 * time.Millisecond})
	defer ex.Stop()

	var attempts int32
	finished := make(chan error, 1)
	job := Tracked(func(context.Context) error {
		atomic.AddInt32(&attempts, 1)
		return errors.NewHTTPError(400, "bad", "create")
	}, func(err error) { finished <- err })

	require.NoError(t, ex.Submit(context.Background(), "k", job))
	select {
	case err := <-finished:
		assert.True(t, errors.IsIrrecoverable(err))
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestShardExecutor_GivesUpAfterMaxAttempts(t *testing.T) {
	var handled int32
	ex := NewShardExecutor(Config{
		Shards: 1, MaxAttempts: 2, BaseBackoff: time.Millisecond,
		ErrorHandler: func(error) { atomic.AddInt32(&handled, 1) },
	})
	defer ex.Stop()

	var attempts int32
	finished := make(chan struct{})
	job := Tracked(func(context.Context) error {
		atomic.AddInt32(&attempts, 1)
		return stderrors.New("still down")
	}, func(error) { close(finished) })

	require.NoError(t, ex.Submit(context.Background(), "k", job))
	waitFor(t, finished)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
	assert.Equal(t, int32(1), atomic.LoadInt32(&handled))
}

func TestShardExecutor_PanicBecomesError(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 1, MaxAttempts: 1})
	defer ex.Stop()

	finished := make(chan error, 1)
	require.NoError(t, ex.Submit(context.Background(), "k", Tracked(func(context.Context) error {
		panic("boom")
	}, func(err error) { finished <- err })))

	err := <-finished
	var pe *PanicError
	require.ErrorAs(t, err, &pe)

	// The shard keeps serving jobs.
	ran := make(chan struct{})
	require.NoError(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		close(ran)
		return nil
	})))
	waitFor(t, ran)
}

func TestShardExecutor_CanceledJobSkipped(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 4, MaxAttempts: 1})
	defer ex.Stop()

	unblock := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		close(started)
		<-unblock
		return nil
	})))
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	var ran int32
	finished := make(chan error, 1)
	require.NoError(t, ex.Submit(ctx, "k", Tracked(func(context.Context) error {
		atomic.StoreInt32(&ran, 1)
		return nil
	}, func(err error) { finished <- err })))
	cancel()
	close(unblock)

	assert.ErrorIs(t, <-finished, context.Canceled)
	assert.Equal(t, int32(0), atomic.LoadInt32(&ran))
}

func TestShardExecutor_StopDrains(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 2, QueueSize: 32})
	var ran int32
	for i := 0; i < 20; i++ {
		require.NoError(t, ex.Submit(context.Background(), fmt.Sprint(i), JobFunc(func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		})))
	}
	ex.Stop()
	ex.Stop()
	assert.Equal(t, int32(20), atomic.LoadInt32(&ran))

	err := ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error { return nil }))
	assert.ErrorIs(t, err, ErrExecutorClosed)
	assert.ErrorIs(t, ex.Barrier(context.Background(), "k"), ErrExecutorClosed)
}

func TestShardExecutor_QueueFull(t *testing.T) {
	ex := NewShardExecutor(Config{Shards: 1, QueueSize: 1, EnqueueTimeout: 10 * time.Millisecond})
	unblock := make(chan struct{})
	defer func() {
		close(unblock)
		ex.Stop()
	}()

	started := make(chan struct{})
	require.NoError(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		close(started)
		<-unblock
		return nil
	})))
	<-started
	require.NoError(t, ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error { return nil })))

	err := ex.Submit(context.Background(), "k", JobFunc(func(context.Context) error { return nil }))
	require.ErrorIs(t, err, ErrQueueFull)
	var qf *QueueFullError
	require.ErrorAs(t, err, &qf)
	assert.Equal(t, 1, qf.Capacity)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TEST_SQ_SHARDS", "8")
	t.Setenv("TEST_SQ_QUEUE_SIZE", "256")
	t.Setenv("TEST_SQ_ENQUEUE_TIMEOUT", "250ms")
	t.Setenv("TEST_SQ_MAX_ATTEMPTS", "3")
	t.Setenv("TEST_SQ_BASE_BACKOFF", "200ms")
	t.Setenv("TEST_SQ_MAX_INTERVAL", "5s")

	cfg, err := LoadConfig("TEST_SQ")
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Shards)
	assert.Equal(t, 256, cfg.QueueSize)
	assert.Equal(t, 250*time.Millisecond, cfg.EnqueueTimeout)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.BaseBackoff)
	assert.Equal(t, 5*time.Second, cfg.MaxInterval)
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, 4, cfg.Shards)
	assert.Equal(t, 128, cfg.QueueSize)
	assert.Equal(t, 5, cfg.MaxAttempts)
}
