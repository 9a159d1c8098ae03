package shardqueue

import (
	"errors"
	"fmt"
)

// ErrQueueFull reports transient back-pressure: the shard queue stayed full
// for EnqueueTimeout.
var ErrQueueFull = errors.New("shard queue full")

// ErrExecutorClosed reports that Stop has been called.
var ErrExecutorClosed = errors.New("shard executor closed")

// QueueFullError carries diagnostics and satisfies errors.Is(_, ErrQueueFull).
type QueueFullError struct {
	Shard    int
	Length   int
	Capacity int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("shard queue %d full (len=%d cap=%d)", e.Shard, e.Length, e.Capacity)
}

func (e *QueueFullError) Is(target error) bool { return target == ErrQueueFull }

// PanicError is what a job that panicked reports as its outcome.
type PanicError struct{ Value any }

func (e *PanicError) Error() string { return fmt.Sprintf("job panic: %v", e.Value) }
