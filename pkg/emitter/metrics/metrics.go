package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alex-netkachov/nbjs-eventful/pkg/emitter"
)

var _ emitter.Counter = (*Counter)(nil)

// Counter records emitter activity as prometheus counters labelled by
// event: one counter for emissions, one for listener deliveries and
// one for failed listener runs.
type Counter struct {
	emissions  *prometheus.CounterVec
	deliveries *prometheus.CounterVec
	failures   *prometheus.CounterVec
}

// NewCounter creates the emitter metrics and registers them with reg.
// A nil reg falls back to the default registerer.
func NewCounter(reg prometheus.Registerer) (*Counter, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Counter{
		emissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "eventful",
				Subsystem: "emitter",
				Name:      "emissions_total",
				Help:      "Total number of emissions by event",
			},
			[]string{"event"},
		),
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "eventful",
				Subsystem: "emitter",
				Name:      "deliveries_total",
				Help:      "Total number of listener deliveries by event",
			},
			[]string{"event"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "eventful",
				Subsystem: "emitter",
				Name:      "listener_failures_total",
				Help:      "Total number of failed listener runs by event",
			},
			[]string{"event"},
		),
	}

	for _, collector := range []prometheus.Collector{c.emissions, c.deliveries, c.failures} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Emitted records one emission of event that addressed the given
// number of listeners.
func (c *Counter) Emitted(event string, listeners int) {
	c.emissions.WithLabelValues(event).Inc()
	c.deliveries.WithLabelValues(event).Add(float64(listeners))
}

// Failed records one failed listener run for event.
func (c *Counter) Failed(event string) {
	c.failures.WithLabelValues(event).Inc()
}
