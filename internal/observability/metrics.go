package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CandidatesIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lpr",
		Name:      "candidates_ingested_total",
		Help:      "Total number of plate candidates created from the detection stream",
	}, []string{"camera"})

	CandidatesVerified = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lpr",
		Name:      "candidates_verified_total",
		Help:      "Total number of candidates promoted to verified plates",
	})

	CandidatesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lpr",
		Name:      "candidates_rejected_total",
		Help:      "Total number of candidates rejected",
	})

	SearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lpr",
		Name:      "plate_searches_total",
		Help:      "Total number of plate search queries",
	})

	SearchCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lpr",
		Name:      "search_cache_hits_total",
		Help:      "Total number of plate searches served from cache",
	})

	ThrottleWait = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lpr",
		Name:      "store_throttle_wait_seconds",
		Help:      "Time spent waiting on the store pacing guard",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 10),
	})

	AlertsFired = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lpr",
		Name:      "watchlist_alerts_total",
		Help:      "Total number of watchlist alerts fired",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lpr",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lpr",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)
