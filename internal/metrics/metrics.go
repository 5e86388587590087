// Package metrics defines the Prometheus collectors exported by `kindred serve`.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kindred_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kindred_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	// Recommendation engine
	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kindred_recommend_duration_seconds",
			Help:    "Time spent scoring and explaining one request",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kindred_recommendations_total",
			Help: "Recommendation requests by interest signal",
		},
		[]string{"signal"}, // query, liked, both, none
	)

	// Result cache
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kindred_cache_requests_total",
			Help: "Result cache lookups by outcome",
		},
		[]string{"result"}, // hit, miss, error
	)

	// Vector space
	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kindred_catalog_items",
			Help: "Number of items in the loaded catalog",
		},
	)

	VocabularyTerms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kindred_vocabulary_terms",
			Help: "Number of terms in the vector space vocabulary",
		},
	)
)

// RecordHTTPRequest records one completed request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRecommendation records one engine call.
func RecordRecommendation(hasQuery, hasLiked bool, duration time.Duration) {
	signal := "none"
	switch {
	case hasQuery && hasLiked:
		signal = "both"
	case hasQuery:
		signal = "query"
	case hasLiked:
		signal = "liked"
	}
	RecommendationsTotal.WithLabelValues(signal).Inc()
	RecommendDuration.Observe(duration.Seconds())
}

// RecordCache records a cache lookup outcome: "hit", "miss" or "error".
func RecordCache(result string) {
	CacheRequestsTotal.WithLabelValues(result).Inc()
}

// SetSpace publishes the size of the loaded vector space.
func SetSpace(items, terms int) {
	CatalogItems.Set(float64(items))
	VocabularyTerms.Set(float64(terms))
}
