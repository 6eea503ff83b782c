package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Upstream lookup outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeTimeout  = "timeout"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// UpstreamLookups counts species lookups by kind (pokemon, digimon) and outcome.
	UpstreamLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "species_lookups_total",
			Help: "Total number of upstream species lookups by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// UpstreamDuration tracks how long a lookup (all upstream calls) took.
	UpstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "species_lookup_duration_seconds",
			Help:    "Upstream species lookup duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"kind"},
	)

	// HistoryWriteFailures counts successful lookups whose ledger write failed.
	HistoryWriteFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "search_history_write_failures_total",
			Help: "Search history records that could not be written",
		},
	)

	// SessionsPurged counts expired sessions removed by the purge job.
	SessionsPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_purged_total",
			Help: "Expired sessions removed by the purge job",
		},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, UpstreamLookups, UpstreamDuration, HistoryWriteFailures, SessionsPurged)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /digimon/289 -> /digimon/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// RecordLookup records one species lookup.
func RecordLookup(kind, outcome string, durationSeconds float64) {
	UpstreamLookups.WithLabelValues(kind, outcome).Inc()
	UpstreamDuration.WithLabelValues(kind).Observe(durationSeconds)
}

// IncHistoryWriteFailures is called when a lookup succeeded but its history row was lost.
func IncHistoryWriteFailures() {
	HistoryWriteFailures.Inc()
}

// AddSessionsPurged adds n to the purged sessions counter.
func AddSessionsPurged(n int64) {
	if n > 0 {
		SessionsPurged.Add(float64(n))
	}
}
