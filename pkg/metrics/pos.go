package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// POSMetrics records checkout and printing activity.
type POSMetrics struct {
	receipts        *prometheus.CounterVec
	revenue         *prometheus.CounterVec
	checkoutFailure *prometheus.CounterVec
	checkoutLatency prometheus.Histogram
	printAttempts   *prometheus.CounterVec
}

// NewPOSMetrics registers the point-of-sale metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewPOSMetrics(reg prometheus.Registerer) *POSMetrics {
	if reg == nil {
		return &POSMetrics{}
	}
	receipts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_receipts_issued_total",
		Help: "Receipts issued, by payment type.",
	}, []string{"payment_type"})
	revenue := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_revenue_cents_total",
		Help: "Revenue of issued receipts in cents, by payment type.",
	}, []string{"payment_type"})
	checkoutFailure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_checkout_failures_total",
		Help: "Checkouts that did not issue a receipt, by error kind.",
	}, []string{"kind"})
	checkoutLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_checkout_duration_seconds",
		Help:    "Duration of receipt issuance in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	printAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_print_attempts_total",
		Help: "Print attempts for pickup slips, by result.",
	}, []string{"result"})
	reg.MustRegister(receipts, revenue, checkoutFailure, checkoutLatency, printAttempts)
	return &POSMetrics{
		receipts:        receipts,
		revenue:         revenue,
		checkoutFailure: checkoutFailure,
		checkoutLatency: checkoutLatency,
		printAttempts:   printAttempts,
	}
}

// ReceiptIssued records one issued receipt.
func (m *POSMetrics) ReceiptIssued(paymentType string, totalCents int64, duration time.Duration) {
	if m == nil || m.receipts == nil {
		return
	}
	label := normalizeLabel(paymentType)
	m.receipts.WithLabelValues(label).Inc()
	m.revenue.WithLabelValues(label).Add(float64(totalCents))
	m.checkoutLatency.Observe(duration.Seconds())
}

// CheckoutFailed records a checkout that was rejected or rolled back.
func (m *POSMetrics) CheckoutFailed(kind string) {
	if m == nil || m.checkoutFailure == nil {
		return
	}
	m.checkoutFailure.WithLabelValues(normalizeLabel(kind)).Inc()
}

// PrintAttempt records the outcome of sending one slip to the printer.
func (m *POSMetrics) PrintAttempt(ok bool) {
	if m == nil || m.printAttempts == nil {
		return
	}
	result := "printed"
	if !ok {
		result = "failed"
	}
	m.printAttempts.WithLabelValues(result).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
