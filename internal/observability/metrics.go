package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SnapshotLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campustrack",
		Name:      "snapshot_loads_total",
		Help:      "Total number of snapshot loads by result",
	}, []string{"result"})

	SnapshotPersons = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "campustrack",
		Name:      "snapshot_persons",
		Help:      "Number of persons in the current snapshot",
	})

	Searches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campustrack",
		Name:      "searches_total",
		Help:      "Total number of searches by type and result",
	}, []string{"type", "result"})

	SearchesSuperseded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "campustrack",
		Name:      "searches_superseded_total",
		Help:      "Searches discarded because a newer search started",
	})

	SearchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "campustrack",
		Name:      "search_duration_seconds",
		Help:      "Duration of backend searches",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"type"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "campustrack",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "campustrack",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "campustrack",
		Name:      "notifications_total",
		Help:      "Notifications pushed to dashboard views",
	}, []string{"level"})
)
