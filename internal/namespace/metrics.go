package namespace

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts structural namespace operations.
type Metrics struct {
	created    *prometheus.CounterVec
	reconciled *prometheus.CounterVec
}

// NewMetrics registers the coordinator's collectors with reg. A nil reg
// keeps the collectors in a private registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		created: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procboard",
			Subsystem: "namespace",
			Name:      "created_total",
			Help:      "Namespaces materialized on first use.",
		}, []string{"kind"}),
		reconciled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procboard",
			Subsystem: "namespace",
			Name:      "reconciled_total",
			Help:      "Per-kind rename and delete reconciliation outcomes.",
		}, []string{"operation", "kind", "outcome"}),
	}
}

func (m *Metrics) observeCreate(kind Kind) {
	m.created.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) observe(operation string, r KindResult) {
	m.reconciled.WithLabelValues(operation, string(r.Kind), string(r.Outcome)).Inc()
}
