// Package telemetry provides the Prometheus metrics and OpenTelemetry tracer
// shared by the caches, the aggregator and the leaderboard service.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid
// and records nothing, which keeps tests and tools free of registration.
type Metrics struct {
	cacheRequests       *prometheus.CounterVec
	cacheEvictions      *prometheus.CounterVec
	partitionFetches    *prometheus.CounterVec
	aggregationDuration prometheus.Histogram
	leaderboardBuilds   *prometheus.CounterVec
	storeWrites         *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		cacheRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wcs_cache_requests_total",
				Help: "Cache lookups by cache name and result.",
			},
			[]string{"cache", "result"},
		),
		cacheEvictions: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wcs_cache_evictions_total",
				Help: "Cache entries removed by reason.",
			},
			[]string{"cache", "reason"},
		),
		partitionFetches: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wcs_partition_fetch_total",
				Help: "Partition reads issued during aggregation by outcome.",
			},
			[]string{"status"},
		),
		aggregationDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wcs_aggregation_duration_seconds",
				Help:    "Wall time of a full date-range aggregation.",
				Buckets: prometheus.DefBuckets,
			},
		),
		leaderboardBuilds: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wcs_leaderboard_builds_total",
				Help: "Leaderboard builds by outcome.",
			},
			[]string{"status"},
		),
		storeWrites: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wcs_store_writes_total",
				Help: "Score store writes by operation and outcome.",
			},
			[]string{"operation", "status"},
		),
	}
}

// CacheHit records a successful lookup in the named cache.
func (m *Metrics) CacheHit(cache string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(cache, "hit").Inc()
}

// CacheMiss records a lookup that had to go to the backing store.
func (m *Metrics) CacheMiss(cache string) {
	if m == nil {
		return
	}
	m.cacheRequests.WithLabelValues(cache, "miss").Inc()
}

// CacheEvicted records n entries removed from the named cache.
func (m *Metrics) CacheEvicted(cache, reason string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.cacheEvictions.WithLabelValues(cache, reason).Add(float64(n))
}

// PartitionFetched records the outcome of one partition read.
func (m *Metrics) PartitionFetched(status string) {
	if m == nil {
		return
	}
	m.partitionFetches.WithLabelValues(status).Inc()
}

// AggregationObserved records the duration of an aggregation.
func (m *Metrics) AggregationObserved(d time.Duration) {
	if m == nil {
		return
	}
	m.aggregationDuration.Observe(d.Seconds())
}

// LeaderboardBuilt records a leaderboard build outcome.
func (m *Metrics) LeaderboardBuilt(err error) {
	if m == nil {
		return
	}
	m.leaderboardBuilds.WithLabelValues(status(err)).Inc()
}

// StoreWrite records a score store write outcome.
func (m *Metrics) StoreWrite(operation string, err error) {
	if m == nil {
		return
	}
	m.storeWrites.WithLabelValues(operation, status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
