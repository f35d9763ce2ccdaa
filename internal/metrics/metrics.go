// Package metrics holds the Prometheus collectors of the engine. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pinyinime"

type Metrics struct {
	Keystrokes       prometheus.Counter
	Lookups          *prometheus.CounterVec
	LookupDuration   prometheus.Histogram
	DictionaryErrors *prometheus.CounterVec
	Commits          *prometheus.CounterVec
	SchemeLoads      *prometheus.CounterVec
}

// New creates the collectors and registers them on reg when reg is not nil.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Keystrokes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "keystrokes_total",
			Help:      "Number of key events processed by sessions.",
		}),
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Number of dictionary lookups by source and mode.",
		}, []string{"source", "mode"}),
		LookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_duration_seconds",
			Help:      "Time spent resolving one syllable sequence across all sources.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		DictionaryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dictionary_errors_total",
			Help:      "Number of failed dictionary lookups by source.",
		}, []string{"source"}),
		Commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commits_total",
			Help:      "Number of committed fragments by kind (candidate or literal).",
		}, []string{"kind"}),
		SchemeLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheme_loads_total",
			Help:      "Number of scheme loads by result.",
		}, []string{"result"}),
	}

	if reg != nil {
		for _, c := range []prometheus.Collector{m.Keystrokes, m.Lookups, m.LookupDuration, m.DictionaryErrors, m.Commits, m.SchemeLoads} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) Keystroke() {
	if m == nil {
		return
	}
	m.Keystrokes.Inc()
}

func (m *Metrics) Lookup(source, mode string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(source, mode).Inc()
}

func (m *Metrics) ObserveLookup(start time.Time) {
	if m == nil {
		return
	}
	m.LookupDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) DictionaryError(source string) {
	if m == nil {
		return
	}
	m.DictionaryErrors.WithLabelValues(source).Inc()
}

func (m *Metrics) Commit(kind string) {
	if m == nil {
		return
	}
	m.Commits.WithLabelValues(kind).Inc()
}

func (m *Metrics) SchemeLoad(result string) {
	if m == nil {
		return
	}
	m.SchemeLoads.WithLabelValues(result).Inc()
}
