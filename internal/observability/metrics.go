package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	syncRunsTotal      *prometheus.CounterVec
	syncItemsTotal     *prometheus.CounterVec
	syncLatencySeconds *prometheus.HistogramVec
	httpRequestsTotal  *prometheus.CounterVec
)

// Item outcome labels recorded per processed raw submission.
const (
	ItemProblemCreated    = "problem_created"
	ItemSubmissionCreated = "submission_created"
	ItemSkippedDuplicate  = "skipped_duplicate"
	ItemFailed            = "failed"
)

// RegisterMetrics initialises the Prometheus collectors for the sync pipeline.
func RegisterMetrics() {
	registerOnce.Do(func() {
		syncRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_runs_total",
			Help: "Total number of sync runs executed, by platform and outcome.",
		}, []string{"platform", "outcome"})

		syncItemsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sync_items_total",
			Help: "Raw submissions processed during sync, by platform and result.",
		}, []string{"platform", "result"})

		syncLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sync_latency_seconds",
			Help:    "Latency distribution for full sync runs.",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		}, []string{"platform"})

		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		prometheus.MustRegister(syncRunsTotal, syncItemsTotal, syncLatencySeconds, httpRequestsTotal)
	})
}

// SyncRuns exposes the counter for completed sync runs.
func SyncRuns() *prometheus.CounterVec {
	RegisterMetrics()
	return syncRunsTotal
}

// SyncItems exposes the counter for per-item sync results.
func SyncItems() *prometheus.CounterVec {
	RegisterMetrics()
	return syncItemsTotal
}

// SyncLatency exposes the sync run latency histogram.
func SyncLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return syncLatencySeconds
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}
