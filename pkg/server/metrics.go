package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsSink is an EventSink that exports the listener lifecycle as Prometheus metrics.
type MetricsSink struct {
	events        *prometheus.CounterVec
	errors        *prometheus.CounterVec
	loginDuration *prometheus.HistogramVec
}

// NewMetricsSink creates the collectors and registers them with reg.
func NewMetricsSink(reg prometheus.Registerer) (*MetricsSink, error) {
	s := &MetricsSink{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goauth_listener_events_total",
			Help: "Total number of auth listener lifecycle events",
		}, []string{"event"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "goauth_listener_errors_total",
			Help: "Total number of rejected logins and browser failures grouped by error kind",
		}, []string{"kind"}),
		loginDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "goauth_login_duration_seconds",
			Help:    "Time from Listen until the login attempt was settled",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"outcome"}),
	}
	for _, c := range []prometheus.Collector{s.events, s.errors, s.loginDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MetricsSink) HandleEvent(e Event) {
	s.events.WithLabelValues(e.Kind.String()).Inc()
	switch e.Kind {
	case EventAccessToken:
		s.loginDuration.WithLabelValues("success").Observe(e.Elapsed.Seconds())
	case EventError:
		kind := KindOf(e.Err)
		s.errors.WithLabelValues(string(kind)).Inc()
		// Browser failures are not settlements.
		if kind != KindBrowserOpen {
			s.loginDuration.WithLabelValues("failure").Observe(e.Elapsed.Seconds())
		}
	}
}
