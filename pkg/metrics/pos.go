package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// POSMetrics records counter activity: orders flowing through the lifecycle,
// settlements taken, and print attempts against the kitchen and receipt
// printers.
type POSMetrics struct {
	ordersCreated  *prometheus.CounterVec
	ordersKitchen  prometheus.Counter
	settlements    *prometheus.CounterVec
	printFailures  *prometheus.CounterVec
	cartOperations *prometheus.CounterVec
}

// NewPOSMetrics registers the POS metrics on the provided registerer.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	ordersCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_orders_created",
		Help: "Orders created, by type.",
	}, []string{"type"})
	ordersKitchen := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pos_orders_sent_to_kitchen",
		Help: "Orders submitted to the kitchen.",
	})
	settlements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_settlements",
		Help: "Completed payment settlements, by method.",
	}, []string{"method"})
	printFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_print_failures",
		Help: "Failed print attempts, by document.",
	}, []string{"document"})
	cartOperations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_cart_operations",
		Help: "Cart mutations, by operation.",
	}, []string{"operation"})
	reg.MustRegister(ordersCreated, ordersKitchen, settlements, printFailures, cartOperations)
	return &POSMetrics{
		ordersCreated:  ordersCreated,
		ordersKitchen:  ordersKitchen,
		settlements:    settlements,
		printFailures:  printFailures,
		cartOperations: cartOperations,
	}
}

// IncOrderCreated increments the created-orders counter for the order type.
func (m *POSMetrics) IncOrderCreated(orderType string) {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.WithLabelValues(normalizeLabel(orderType)).Inc()
}

// IncOrderSentToKitchen increments the kitchen submission counter.
func (m *POSMetrics) IncOrderSentToKitchen() {
	if m == nil || m.ordersKitchen == nil {
		return
	}
	m.ordersKitchen.Inc()
}

// IncSettlement increments the settlement counter for the payment method.
func (m *POSMetrics) IncSettlement(method string) {
	if m == nil || m.settlements == nil {
		return
	}
	m.settlements.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncPrintFailure increments the print failure counter for the document kind.
func (m *POSMetrics) IncPrintFailure(document string) {
	if m == nil || m.printFailures == nil {
		return
	}
	m.printFailures.WithLabelValues(normalizeLabel(document)).Inc()
}

// IncCartOperation increments the cart mutation counter.
func (m *POSMetrics) IncCartOperation(operation string) {
	if m == nil || m.cartOperations == nil {
		return
	}
	m.cartOperations.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
