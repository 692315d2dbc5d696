package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathassist/lab-billing/internal/infrastructure/metrics"
)

func TestRecorder_CuentaOperaciones(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRecorder(reg)

	r.InvoiceSaved("create", decimal.NewFromInt(826))
	r.InvoiceSaved("create", decimal.NewFromInt(1534))
	r.InvoiceSaved("update", decimal.NewFromInt(472))
	r.ValidationRejected("invalid_line_item")
	r.PDFRendered()

	families, err := reg.Gather()
	require.NoError(t, err)
	byName := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				byName[f.GetName()] += m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				byName[f.GetName()] += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}

	assert.Equal(t, 3.0, byName["pathassist_billing_invoices_saved_total"])
	assert.Equal(t, 1.0, byName["pathassist_billing_validation_rejected_total"])
	assert.Equal(t, 1.0, byName["pathassist_billing_invoice_pdf_rendered_total"])
	assert.Equal(t, 3.0, byName["pathassist_billing_invoice_grand_total_inr"])
}

func TestRecorder_SeriesRegistradas(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := metrics.NewRecorder(reg)
	r.ValidationRejected("missing_patient")
	r.ValidationRejected("invalid_line_item")

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
