package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/shinychoudhury/physics-informed-nuclear-reactor-unit-commitment-algorithm/core/metrics"
)

// PromSink records window results as Prometheus metrics.
type PromSink struct {
	objective prometheus.Gauge
	nse       prometheus.Counter
	curtailed prometheus.Counter
	outages   prometheus.Counter
	solveTime prometheus.Histogram
}

// NewPromSink registers window metrics on the default Prometheus
// registerer. The Prometheus server should be started separately with
// StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		objective: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "uc_window_objective_dollars",
			Help: "Objective value of the most recent solved window",
		}),
		nse: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uc_nonserved_energy_mwh_total",
			Help: "Cumulative non-served energy across windows",
		}),
		curtailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uc_curtailed_energy_mwh_total",
			Help: "Cumulative curtailed renewable energy across windows",
		}),
		outages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uc_reactor_outages_total",
			Help: "Refueling outages scheduled by the physics update",
		}),
		solveTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "uc_solve_duration_seconds",
			Help:    "Wall time spent in the solver per window",
			Buckets: prometheus.DefBuckets,
		}),
	}
	for _, c := range []prometheus.Collector{s.objective, s.nse, s.curtailed, s.outages, s.solveTime} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return s, nil
}

// RecordWindowResult implements the core metrics sink.
func (s *PromSink) RecordWindowResult(res coremetrics.WindowResult) error {
	s.objective.Set(res.Objective)
	s.nse.Add(res.NonServedMWh)
	s.curtailed.Add(res.CurtailedMWh)
	s.outages.Add(float64(res.OutagesScheduled))
	s.solveTime.Observe(res.SolveSeconds)
	return nil
}

// StartPromServer exposes /metrics on the given port and blocks.
func StartPromServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
