package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records counters for checkout and settlement flows.
type CheckoutMetrics struct {
	checkouts   *prometheus.CounterVec
	settlements *prometheus.CounterVec
	orders      prometheus.Counter
}

// NewCheckoutMetrics registers the flow metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_total",
		Help: "Checkout attempts by outcome.",
	}, []string{"outcome"})
	settlements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_total",
		Help: "Webhook settlement attempts by outcome.",
	}, []string{"outcome"})
	orders := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created through checkout.",
	})
	reg.MustRegister(checkouts, settlements, orders)
	return &CheckoutMetrics{
		checkouts:   checkouts,
		settlements: settlements,
		orders:      orders,
	}
}

// IncCheckout increments the checkout counter for the given outcome.
func (c *CheckoutMetrics) IncCheckout(outcome string) {
	if c == nil || c.checkouts == nil {
		return
	}
	c.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncSettlement increments the settlement counter for the given outcome.
func (c *CheckoutMetrics) IncSettlement(outcome string) {
	if c == nil || c.settlements == nil {
		return
	}
	c.settlements.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// AddOrdersCreated bumps the created-orders counter.
func (c *CheckoutMetrics) AddOrdersCreated(n int) {
	if c == nil || c.orders == nil || n <= 0 {
		return
	}
	c.orders.Add(float64(n))
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "unknown"
	}
	return value
}
