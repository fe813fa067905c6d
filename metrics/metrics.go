// Package metrics exports simulation outcomes as Prometheus collectors on a
// private registry.
package metrics

import (
	"strconv"

	"github.com/harlequix/paritysim/simulation"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "paritysim"

const (
	outcomeConverged    = "converged"
	outcomeNotConverged = "not_converged"
)

// Collector implements simulation.Observer. It is safe for concurrent use.
type Collector struct {
	registry  *prometheus.Registry
	runs      *prometheus.CounterVec
	attempts  *prometheus.HistogramVec
	corrected *prometheus.CounterVec
	residual  *prometheus.CounterVec
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Finished simulation runs by coding method and outcome.",
		}, []string{"method", "outcome"}),
		attempts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "attempts",
			Help:      "Transmissions needed per run.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 18),
		}, []string{"method", "d"}),
		corrected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corrected_frames_total",
			Help:      "Frames repaired in accepted transmissions.",
		}, []string{"method"}),
		residual: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "residual_errors_total",
			Help:      "Data bits accepted with an undetected error.",
		}, []string{"method"}),
	}
	c.registry.MustRegister(c.runs, c.attempts, c.corrected, c.residual)
	return c
}

func (c *Collector) Observe(res *simulation.Result) {
	method := res.Config.Method.String()
	outcome := outcomeConverged
	if !res.Converged {
		outcome = outcomeNotConverged
	}
	c.runs.WithLabelValues(method, outcome).Inc()
	c.attempts.WithLabelValues(method, strconv.Itoa(res.Config.D)).Observe(float64(res.Attempts))
	c.corrected.WithLabelValues(method).Add(float64(res.Corrected))
	c.residual.WithLabelValues(method).Add(float64(res.ResidualErrors))
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteToTextfile dumps the registry in the text exposition format, ready for
// the node_exporter textfile collector.
func (c *Collector) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}
