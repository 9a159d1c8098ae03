package store

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tidewell/scheduler/internal/health"
)

// HealthChecker probes a store periodically and caches the result.
type HealthChecker struct {
	store        Appointments
	healthy      atomic.Int32
	log          zerolog.Logger
	probeTimeout time.Duration
}

// NewHealthChecker starts unhealthy until the first successful probe.
func NewHealthChecker(s Appointments, log zerolog.Logger, probeTimeout time.Duration) *HealthChecker {
	return &HealthChecker{store: s, log: log, probeTimeout: probeTimeout}
}

func (hc *HealthChecker) Name() string { return "store" }

func (hc *HealthChecker) IsHealthy() bool { return hc.healthy.Load() == 1 }

// Start probes once immediately, then every interval until ctx ends.
func (hc *HealthChecker) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	check := func() {
		to := hc.probeTimeout
		if to <= 0 {
			to = 2 * time.Second
		}
		probeCtx, cancel := context.WithTimeout(ctx, to)
		defer cancel()
		if err := hc.Probe(probeCtx); err != nil {
			hc.log.Error().Stack().Str("checker", hc.Name()).Err(err).Msg("store health check failed")
			hc.healthy.Store(0)
			return
		}
		hc.healthy.Store(1)
	}

	check()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

// Probe prefers the store's own HealthPing and falls back to a List call.
func (hc *HealthChecker) Probe(ctx context.Context) error {
	if p, ok := hc.store.(health.Pinger); ok {
		return p.HealthPing(ctx)
	}
	_, err := hc.store.List(ctx)
	return err
}
