package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer is the process-wide metrics sink.
var Observer = &Metrics{
	mutex:      new(sync.RWMutex),
	prometheus: NewPrometheusMetrics(),
}

func init() {
	prometheus.MustRegister(Observer.prometheus.Actions)
	prometheus.MustRegister(Observer.prometheus.Epochs)
}

// Metrics wraps the prometheus counters behind simple increment calls.
type Metrics struct {
	mutex      *sync.RWMutex
	prometheus Prometheus
}

// IncrementAction counts one executed action with its outcome.
func (m *Metrics) IncrementAction(action, outcome string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.prometheus.Actions.WithLabelValues(action, outcome).Inc()
}

// AddEpochs counts trained epochs for the given phase.
func (m *Metrics) AddEpochs(phase string, epochs int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.prometheus.Epochs.WithLabelValues(phase).Add(float64(epochs))
}
