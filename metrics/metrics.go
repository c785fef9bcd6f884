// Package metrics exposes Prometheus counters for the order engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type CoreMetrics struct {
	OrdersPlaced          prometheus.Counter
	OrderFailures         *prometheus.CounterVec
	PaymentsConfirmed     prometheus.Counter
	DuplicateConfirmation prometheus.Counter
	StatusTransitions     *prometheus.CounterVec
}

// New registers the engine's counters on reg, defaulting to the global
// registry. Tests pass a fresh prometheus.NewRegistry so instances stay
// isolated.
func New(reg prometheus.Registerer) *CoreMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &CoreMetrics{
		OrdersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "orders_placed_total",
			Help:      "Orders committed by the order creation transaction.",
		}),
		OrderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "order_failures_total",
			Help:      "Rejected order placements by error code.",
		}, []string{"reason"}),
		PaymentsConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "payments_confirmed_total",
			Help:      "Payment confirmations that applied effects.",
		}),
		DuplicateConfirmation: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "payment_duplicate_confirmations_total",
			Help:      "Replayed confirmations answered as no-op successes.",
		}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "checkout",
			Name:      "order_status_transitions_total",
			Help:      "Successful order status transitions.",
		}, []string{"to"}),
	}
	reg.MustRegister(
		m.OrdersPlaced,
		m.OrderFailures,
		m.PaymentsConfirmed,
		m.DuplicateConfirmation,
		m.StatusTransitions,
	)
	return m
}

func Handler() http.Handler {
	return promhttp.Handler()
}
