package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Process-wide collectors, registered with the default registry.
var (
	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cargo_tracking_operation_duration_seconds",
		Help:    "Duration of timed operations by outcome",
		Buckets: prometheus.DefBuckets,
	}, []string{"op", "outcome"})

	HandlingEventsRegistered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cargo_tracking_handling_events_registered_total",
		Help: "Handling events stored, by event type",
	}, []string{"type"})

	CargoInspections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cargo_tracking_inspections_total",
		Help: "Cargo inspections, by result (updated, unchanged)",
	}, []string{"result"})

	CargosMisdirected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cargo_tracking_misdirected_total",
		Help: "Inspections that found the cargo misdirected",
	})

	CargosArrived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cargo_tracking_arrived_total",
		Help: "Inspections that found the cargo unloaded at its destination",
	})

	MessagesHandled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cargo_tracking_messages_total",
		Help: "Consumed notifications, by topic and outcome (ok, retry, dead_letter)",
	}, []string{"topic", "outcome"})

	OutboxPending = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cargo_tracking_outbox_pending",
		Help: "Outbox rows seen unpublished on the last relay pass",
	})

	RouteCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cargo_tracking_route_cache_lookups_total",
		Help: "Route candidate cache lookups, by result (hit, miss)",
	}, []string{"result"})
)
