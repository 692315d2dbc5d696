package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus estado de pago de una factura.
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusFailed  PaymentStatus = "Failed"
)

// DefaultCurrency moneda por defecto de las facturas del laboratorio.
const DefaultCurrency = "INR"

// ParsePaymentStatus convierte un texto (sin distinguir mayúsculas) en PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid":
		return PaymentStatusPaid, true
	case "pending":
		return PaymentStatusPending, true
	case "failed":
		return PaymentStatusFailed, true
	}
	return "", false
}

// Invoice representa una factura emitida a un paciente.
// Amount es el subtotal antes de impuestos; TaxAmount la suma CGST + SGST.
type Invoice struct {
	ID            string
	PatientID     string
	PatientName   string // derivado del paciente al leer
	AppointmentID string
	InvoiceNumber string
	IssueDate     time.Time
	DueDate       *time.Time
	Items         []InvoiceItem
	Amount        decimal.Decimal
	TaxAmount     decimal.Decimal
	Currency      string
	Status        PaymentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GrandTotal subtotal más impuestos.
func (i *Invoice) GrandTotal() decimal.Decimal {
	return i.Amount.Add(i.TaxAmount)
}
