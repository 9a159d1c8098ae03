// Package health aggregates component probes into one service flag that the
// HTTP health endpoint and the startup gate read without blocking.
package health

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Checker is implemented by component-level probes.
type Checker interface {
	Name() string
	IsHealthy() bool
	Start(ctx context.Context, interval time.Duration)
}

// Pinger is implemented by components that can answer a direct health probe.
type Pinger interface {
	HealthPing(ctx context.Context) error
}

// ServiceChecker is healthy when every dependency is.
type ServiceChecker struct {
	healthy atomic.Int32
	deps    []Checker
	log     zerolog.Logger
}

func NewServiceChecker(log zerolog.Logger, deps ...Checker) *ServiceChecker {
	return &ServiceChecker{deps: deps, log: log}
}

func (h *ServiceChecker) IsHealthy() bool { return h.healthy.Load() == 1 }

// Components reports the cached state of each dependency by name.
func (h *ServiceChecker) Components() map[string]bool {
	out := make(map[string]bool, len(h.deps))
	for _, d := range h.deps {
		out[d.Name()] = d.IsHealthy()
	}
	return out
}

// Start re-evaluates dependencies every interval until ctx ends, logging
// transitions.
func (h *ServiceChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := int32(-1)
	eval := func() {
		cur := int32(1)
		for _, c := range h.deps {
			if !c.IsHealthy() {
				cur = 0
				break
			}
		}
		h.healthy.Store(cur)
		if cur != prev {
			if cur == 1 {
				h.log.Info().Msg("service health: UP")
			} else {
				h.log.Error().Interface("components", h.Components()).Msg("service health: DOWN")
			}
			prev = cur
		}
	}

	eval()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			eval()
		}
	}
}

// WaitUntilHealthy polls check until it reports healthy or timeout elapses.
func WaitUntilHealthy(ctx context.Context, check func() bool, timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		if check() {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return false
		case <-tick.C:
		}
	}
}
