package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// cacheLookups counts fingerprint lookups against the survey store.
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_cache_lookups_total",
			Help: "Fingerprint lookups against the survey store, by result.",
		},
		[]string{"result"}, // hit|miss|error
	)

	// generations counts backend calls by outcome.
	generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_generations_total",
			Help: "Survey generations on cache miss, by outcome.",
		},
		[]string{"outcome"}, // ok|degraded|backend_error|canceled
	)

	// storeInserts counts insert attempts after a successful generation.
	storeInserts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_store_inserts_total",
			Help: "Inserts into the survey store, by result.",
		},
		[]string{"result"}, // ok|duplicate|error
	)

	// backendDuration records generation backend latency in seconds. LLM
	// calls are slow, so buckets reach past the default 10s.
	backendDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "survey_backend_duration_seconds",
			Help:    "Duration of generation backend calls in seconds.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)
)

func init() {
	prometheus.MustRegister(cacheLookups, generations, storeInserts, backendDuration)
}
