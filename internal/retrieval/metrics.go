package retrieval

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	retrievalRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "texttosql_retrieval_requests_total",
			Help: "Total number of retrieval runs by status.",
		},
		[]string{"status"},
	)
	retrievalTablesRetained = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "texttosql_retrieval_tables_retained",
			Help:    "Surviving table count per retrieval run.",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)
	retrievalDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "texttosql_retrieval_duration_seconds",
			Help:    "End-to-end retrieval latency including encoding.",
			Buckets: prometheus.DefBuckets,
		},
	)
	encodeCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "texttosql_encode_calls_total",
			Help: "Total number of encoder invocations by status.",
		},
		[]string{"status"},
	)
	encodeDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "texttosql_encode_duration_seconds",
			Help:    "Latency of individual encoder invocations.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(
		retrievalRequestsTotal,
		retrievalTablesRetained,
		retrievalDurationSeconds,
		encodeCallsTotal,
		encodeDurationSeconds,
	)
}

func observeRetrieval(err error, tablesRetained int, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	retrievalRequestsTotal.WithLabelValues(status).Inc()
	if err == nil {
		retrievalTablesRetained.Observe(float64(tablesRetained))
	}
	retrievalDurationSeconds.Observe(elapsed.Seconds())
}

func observeEncode(err error, elapsed time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	encodeCallsTotal.WithLabelValues(status).Inc()
	encodeDurationSeconds.Observe(elapsed.Seconds())
}
