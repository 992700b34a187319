package interfaces

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the widget's collectors on a private registry so tests can
// build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	sessionsOpened  prometheus.Counter
	sessionsActive  prometheus.Gauge
	sessionsEvicted *prometheus.CounterVec
	fetchTotal      *prometheus.CounterVec
	fetchDuration   prometheus.Histogram
	eventsLoaded    *prometheus.CounterVec
	filterChanges   *prometheus.CounterVec
	selections      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.sessionsOpened = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "events_widget",
		Name:      "sessions_opened_total",
		Help:      "Widget sessions opened (page loads)",
	})
	m.sessionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "events_widget",
		Name:      "sessions_active",
		Help:      "Widget sessions currently held in memory",
	})
	m.sessionsEvicted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "events_widget",
		Name:      "sessions_evicted_total",
		Help:      "Widget sessions dropped by reason",
	}, []string{"reason"})
	m.fetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "events_widget",
		Name:      "fetch_total",
		Help:      "Upstream event fetches by outcome",
	}, []string{"status"})
	m.fetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "events_widget",
		Name:      "fetch_duration_seconds",
		Help:      "Time spent fetching the event list",
		Buckets:   prometheus.DefBuckets,
	})
	m.eventsLoaded = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "events_widget",
		Name:      "events_loaded_total",
		Help:      "Fetched events by eligibility",
	}, []string{"result"})
	m.filterChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "events_widget",
		Name:      "filter_changes_total",
		Help:      "Filter selections by dimension and value",
	}, []string{"dimension", "value"})
	m.selections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "events_widget",
		Name:      "selections_total",
		Help:      "Detail views opened and dismissed",
	}, []string{"action"})

	m.registry.MustRegister(
		m.sessionsOpened, m.sessionsActive, m.sessionsEvicted,
		m.fetchTotal, m.fetchDuration, m.eventsLoaded,
		m.filterChanges, m.selections,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeFetch(start time.Time, err error) {
	if m == nil {
		return
	}
	m.fetchDuration.Observe(time.Since(start).Seconds())
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.fetchTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) observeLoad(kept, dropped int) {
	if m == nil {
		return
	}
	m.eventsLoaded.WithLabelValues("eligible").Add(float64(kept))
	m.eventsLoaded.WithLabelValues("dropped").Add(float64(dropped))
}

func (m *Metrics) observeFilter(dimension, value string) {
	if m == nil {
		return
	}
	m.filterChanges.WithLabelValues(dimension, value).Inc()
}

func (m *Metrics) observeSelection(action string) {
	if m == nil {
		return
	}
	m.selections.WithLabelValues(action).Inc()
}

func (m *Metrics) observeSessionOpened(active int) {
	if m == nil {
		return
	}
	m.sessionsOpened.Inc()
	m.sessionsActive.Set(float64(active))
}

func (m *Metrics) observeEviction(reason string, n, active int) {
	if m == nil {
		return
	}
	m.sessionsEvicted.WithLabelValues(reason).Add(float64(n))
	m.sessionsActive.Set(float64(active))
}
