// Package metrics exposes Prometheus collectors for quote board events.
// They are registered on the default registry served at /-/metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "quotesboard"

var (
	quotesServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "quotes_served_total",
		Help:      "Random quotes served, by selection kind.",
	}, []string{"kind"})

	recordsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_created_total",
		Help:      "Rows created, by entity.",
	}, []string{"entity"})

	importResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "import_results_total",
		Help:      "Remote quote import outcomes.",
	}, []string{"outcome"})

	circuitState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "downstream_circuit_state",
		Help:      "Circuit breaker state per downstream: 0 closed, 1 open, 2 half-open.",
	}, []string{"downstream"})
)

// QuoteServed counts a random selection of the given kind.
func QuoteServed(kind string) { quotesServed.WithLabelValues(kind).Inc() }

// RecordCreated counts a newly stored entity.
func RecordCreated(entity string) { recordsCreated.WithLabelValues(entity).Inc() }

// ImportResult counts one import outcome.
func ImportResult(outcome string) { importResults.WithLabelValues(outcome).Inc() }

// CircuitState records the breaker state of a downstream service.
func CircuitState(downstream string, state int) {
	circuitState.WithLabelValues(downstream).Set(float64(state))
}
