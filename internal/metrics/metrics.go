package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "coinsearch"

// Fetch outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeNetwork = "network"
	OutcomeParsing = "parsing"
	OutcomeError   = "error"
)

// Recorder holds the search pipeline collectors.
type Recorder struct {
	fetchesTotal   *prometheus.CounterVec
	fetchDuration  prometheus.Histogram
	inFlight       prometheus.Gauge
	keystrokes     prometheus.Counter
	coalescedTotal prometheus.Counter
	staleDropped   prometheus.Counter
	resultsLast    prometheus.Gauge
}

// NewRecorder creates the collectors and registers them with reg. A nil reg
// leaves them unregistered, which is what tests usually want.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		fetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetches_total",
				Help:      "Settled search fetches by outcome",
			},
			[]string{"outcome"},
		),
		fetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Search fetch duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
		),
		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "fetches_in_flight",
				Help:      "Search fetches currently awaiting a response",
			},
		),
		keystrokes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "query_changes_total",
				Help:      "Query text changes received",
			},
		),
		coalescedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "debounce_coalesced_total",
				Help:      "Query changes superseded before their debounce window elapsed",
			},
		),
		staleDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stale_responses_dropped_total",
				Help:      "Fetch results discarded because a newer fetch already settled",
			},
		),
		resultsLast: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_result_count",
				Help:      "Number of coins in the most recently applied result list",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(
			r.fetchesTotal,
			r.fetchDuration,
			r.inFlight,
			r.keystrokes,
			r.coalescedTotal,
			r.staleDropped,
			r.resultsLast,
		)
	}
	return r
}

// QueryChanged counts a keystroke. superseded is true when it replaced a
// pending debounce timer.
func (r *Recorder) QueryChanged(superseded bool) {
	r.keystrokes.Inc()
	if superseded {
		r.coalescedTotal.Inc()
	}
}

// FetchStarted marks a fetch as in flight.
func (r *Recorder) FetchStarted() {
	r.inFlight.Inc()
}

// FetchSettled records the outcome and latency of a finished fetch.
func (r *Recorder) FetchSettled(outcome string, d time.Duration) {
	r.inFlight.Dec()
	r.fetchesTotal.WithLabelValues(outcome).Inc()
	r.fetchDuration.Observe(d.Seconds())
}

// ResultsApplied records the size of a result list written to the store.
func (r *Recorder) ResultsApplied(count int) {
	r.resultsLast.Set(float64(count))
}

// StaleDropped counts a discarded out-of-order completion.
func (r *Recorder) StaleDropped() {
	r.staleDropped.Inc()
}
