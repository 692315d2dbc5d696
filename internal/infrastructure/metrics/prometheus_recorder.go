package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	appbilling "github.com/pathassist/lab-billing/internal/application/billing"
)

const namespace = "pathassist_billing"

var _ appbilling.MetricsRecorder = (*Recorder)(nil)

// Recorder implementa billing.MetricsRecorder con Prometheus.
type Recorder struct {
	invoicesSaved      *prometheus.CounterVec
	validationRejected *prometheus.CounterVec
	pdfRendered        prometheus.Counter
	grandTotals        prometheus.Histogram
}

// NewRecorder registra los colectores en reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		invoicesSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_saved_total",
			Help:      "Facturas guardadas, por operación.",
		}, []string{"operation"}),
		validationRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_rejected_total",
			Help:      "Envíos rechazados por validación, por motivo.",
		}, []string{"reason"}),
		pdfRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_pdf_rendered_total",
			Help:      "PDFs de factura generados.",
		}),
		grandTotals: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invoice_grand_total_inr",
			Help:      "Total general de las facturas guardadas.",
			Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000, 25000},
		}),
	}
	reg.MustRegister(r.invoicesSaved, r.validationRejected, r.pdfRendered, r.grandTotals)
	return r
}

func (r *Recorder) InvoiceSaved(operation string, grandTotal decimal.Decimal) {
	r.invoicesSaved.WithLabelValues(operation).Inc()
	r.grandTotals.Observe(grandTotal.InexactFloat64())
}

func (r *Recorder) ValidationRejected(reason string) {
	r.validationRejected.WithLabelValues(reason).Inc()
}

func (r *Recorder) PDFRendered() {
	r.pdfRendered.Inc()
}
