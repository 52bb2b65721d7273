package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the calendar API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	conflictGroups  prometheus.Counter
	decisions       prometheus.Counter
	proposals       prometheus.Counter
	unplacedTasks   prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	conflictGroups := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "calendar_conflict_groups_total",
		Help: "Total conflict groups detected across reports",
	})

	decisions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "calendar_resolution_decisions_total",
		Help: "Total reschedule decisions emitted by conflict resolution",
	})

	proposals := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_proposals_total",
		Help: "Total slot proposals produced by the smart scheduler",
	})

	unplacedTasks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_unplaced_tasks_total",
		Help: "Total pending tasks that could not be placed before their deadline",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses, conflictGroups, decisions, proposals, unplacedTasks, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		conflictGroups:  conflictGroups,
		decisions:       decisions,
		proposals:       proposals,
		unplacedTasks:   unplacedTasks,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	code := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, code).Inc()
}

// RecordCacheOperation tracks cache hit/miss outcomes.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// RecordConflictReport tracks detected groups and emitted decisions.
func (m *MetricsService) RecordConflictReport(groups, decisions int) {
	if m == nil {
		return
	}
	m.conflictGroups.Add(float64(groups))
	m.decisions.Add(float64(decisions))
}

// RecordSchedulerRun tracks placement outcomes of one proposal run.
func (m *MetricsService) RecordSchedulerRun(proposed, unplaced int) {
	if m == nil {
		return
	}
	m.proposals.Add(float64(proposed))
	m.unplacedTasks.Add(float64(unplaced))
}
