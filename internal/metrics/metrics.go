package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns its registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	reminderRuns    prometheus.Counter
	remindersFired  *prometheus.CounterVec
	remindersPruned prometheus.Counter
	remindersUnread prometheus.Gauge

	emailsSent *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "formatech_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "formatech_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		reminderRuns: f.NewCounter(prometheus.CounterOpts{
			Name: "formatech_reminder_evaluations_total",
			Help: "Reminder rule evaluations.",
		}),
		remindersFired: f.NewCounterVec(prometheus.CounterOpts{
			Name: "formatech_reminders_fired_total",
			Help: "Reminders fired by rule type.",
		}, []string{"type"}),
		remindersPruned: f.NewCounter(prometheus.CounterOpts{
			Name: "formatech_reminders_pruned_total",
			Help: "Unread reminders removed because their rule stopped firing.",
		}),
		remindersUnread: f.NewGauge(prometheus.GaugeOpts{
			Name: "formatech_reminders_unread",
			Help: "Unread reminders after the last evaluation.",
		}),
		emailsSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "formatech_outreach_emails_total",
			Help: "Outreach emails by delivery status.",
		}, []string{"status"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveReminders records one evaluation run.
func (m *Metrics) ObserveReminders(firedByType map[string]int, pruned, unread int64) {
	if m == nil {
		return
	}
	m.reminderRuns.Inc()
	for t, n := range firedByType {
		m.remindersFired.WithLabelValues(t).Add(float64(n))
	}
	m.remindersPruned.Add(float64(pruned))
	m.remindersUnread.Set(float64(unread))
}

func (m *Metrics) ObserveEmail(status string) {
	if m == nil {
		return
	}
	m.emailsSent.WithLabelValues(status).Inc()
}
