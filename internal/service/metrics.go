package service

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes recorded in soil_submissions_total.
const (
	outcomeSucceeded        = "succeeded"
	outcomeFailed           = "failed"
	outcomeRejectedInFlight = "rejected_in_flight"
	outcomeRejectedInvalid  = "rejected_invalid"
)

// Metrics holds the screen's prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	submissions *prometheus.CounterVec
	latency     prometheus.Histogram
	inFlight    prometheus.Gauge
	slogans     prometheus.Counter
}

// NewMetrics creates the collectors and registers them on reg when it is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "soil_submissions_total",
			Help: "Diagnostic submissions by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "soil_prediction_latency_seconds",
			Help:    "Time from submission acceptance to the prediction service answer.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "soil_submission_in_flight",
			Help: "1 while a submission is outstanding.",
		}),
		slogans: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "soil_slogan_advances_total",
			Help: "Slogan rotations performed.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.submissions, m.latency, m.inFlight, m.slogans)
	}
	return m
}

func (m *Metrics) outcome(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.latency.Observe(d.Seconds())
}

func (m *Metrics) setInFlight(busy bool) {
	if m == nil {
		return
	}
	if busy {
		m.inFlight.Set(1)
		return
	}
	m.inFlight.Set(0)
}

func (m *Metrics) sloganAdvanced() {
	if m == nil {
		return
	}
	m.slogans.Inc()
}
