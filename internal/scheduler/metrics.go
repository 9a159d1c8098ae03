package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	intentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scheduler",
			Subsystem: "engine",
			Name:      "intents_total",
			Help:      "Intents reduced by the event loop.",
		},
		[]string{"intent"},
	)

	remoteWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "scheduler",
			Subsystem: "engine",
			Name:      "remote_writes_total",
			Help:      "Remote store writes by final outcome.",
		},
		[]string{"op", "result"},
	)

	dirtyRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "scheduler",
			Subsystem: "engine",
			Name:      "dirty_records",
			Help:      "Appointments whose last remote write failed.",
		},
	)
)
