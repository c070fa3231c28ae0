package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPOSMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPOSMetrics(reg)

	m.ReceiptIssued("CASH", 1250, 20*time.Millisecond)
	m.ReceiptIssued("CASH", 250, 10*time.Millisecond)
	m.CheckoutFailed("INVALID_INPUT")
	m.PrintAttempt(true)
	m.PrintAttempt(false)
	m.PrintAttempt(false)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := counterValue(mfs, "pos_receipts_issued_total", "payment_type", "CASH")
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	got, err = counterValue(mfs, "pos_revenue_cents_total", "payment_type", "CASH")
	require.NoError(t, err)
	assert.Equal(t, 1500.0, got)

	got, err = counterValue(mfs, "pos_checkout_failures_total", "kind", "INVALID_INPUT")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = counterValue(mfs, "pos_print_attempts_total", "result", "failed")
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)
}

func TestPOSMetricsNilSafe(t *testing.T) {
	var m *POSMetrics
	m.ReceiptIssued("CARD", 100, time.Millisecond)
	m.CheckoutFailed("")
	m.PrintAttempt(true)

	NewPOSMetrics(nil).PrintAttempt(false)
}

func counterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetName() == label && pair.GetValue() == value {
					return metric.GetCounter().GetValue(), nil
				}
			}
		}
		return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
	}
	return 0, fmt.Errorf("metric %q not found", name)
}
