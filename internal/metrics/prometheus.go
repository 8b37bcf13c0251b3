package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus groups the counters the execution engine reports to.
type Prometheus struct {
	Actions *prometheus.CounterVec
	Epochs  *prometheus.CounterVec
}

// NewPrometheusMetrics creates the counters for executed actions and trained epochs.
func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "deeptask",
				Name:      "actions",
			}, []string{"action", "outcome"}),
		Epochs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "deeptask",
				Name:      "epochs",
			}, []string{"phase"}),
	}
}
