package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemRequest línea de factura enviada por el cliente. El total se calcula en servidor.
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// TaxConfigDTO configuración CGST/SGST. Las tasas son porcentajes (9 = 9%).
type TaxConfigDTO struct {
	Applicable bool            `json:"applicable"`
	CGSTRate   decimal.Decimal `json:"cgst_rate"`
	SGSTRate   decimal.Decimal `json:"sgst_rate"`
}

// CreateInvoiceRequest body para POST /api/invoices y PUT /api/invoices/:id.
// Fechas en formato 2006-01-02; vacías usan los valores por defecto.
type CreateInvoiceRequest struct {
	PatientID     string               `json:"patient_id"`
	AppointmentID string               `json:"appointment_id,omitempty"`
	InvoiceNumber string               `json:"invoice_number,omitempty"`
	IssueDate     string               `json:"issue_date,omitempty"`
	DueDate       string               `json:"due_date,omitempty"`
	Status        string               `json:"status,omitempty"` // solo en actualización
	Items         []InvoiceItemRequest `json:"items"`
	Tax           *TaxConfigDTO        `json:"tax,omitempty"`
}

// PreviewTotalsRequest body para POST /api/invoices/preview.
type PreviewTotalsRequest struct {
	Items []InvoiceItemRequest `json:"items"`
	Tax   *TaxConfigDTO        `json:"tax,omitempty"`
}

// InvoiceItemResponse línea con su total.
type InvoiceItemResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// TotalsResponse totales redondeados a 2 decimales.
type TotalsResponse struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	CGSTAmount decimal.Decimal `json:"cgst_amount"`
	SGSTAmount decimal.Decimal `json:"sgst_amount"`
	TaxAmount  decimal.Decimal `json:"tax_amount"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// PreviewTotalsResponse resultado de la vista previa.
type PreviewTotalsResponse struct {
	Items  []InvoiceItemResponse `json:"items"`
	Tax    TaxConfigDTO          `json:"tax"`
	Totals TotalsResponse        `json:"totals"`
}

// InvoiceResponse factura con líneas para GET /api/invoices/:id.
// Tax son las tasas reconstruidas desde el impuesto almacenado.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	PatientID     string                `json:"patient_id"`
	PatientName   string                `json:"patient_name,omitempty"`
	AppointmentID string                `json:"appointment_id,omitempty"`
	InvoiceNumber string                `json:"invoice_number"`
	IssueDate     string                `json:"issue_date"`
	DueDate       string                `json:"due_date,omitempty"`
	Currency      string                `json:"currency"`
	Status        string                `json:"status"`
	Items         []InvoiceItemResponse `json:"items"`
	Amount        decimal.Decimal       `json:"amount"`
	TaxAmount     decimal.Decimal       `json:"tax_amount"`
	GrandTotal    decimal.Decimal       `json:"grand_total"`
	Tax           TaxConfigDTO          `json:"tax"`
	Totals        TotalsResponse        `json:"totals"`
}

// InvoiceListQuery parámetros de GET /api/invoices.
type InvoiceListQuery struct {
	Query string `query:"q"`
	Sort  string `query:"sort"` // invoiceNumber|patientName|issueDate|dueDate|status|grandTotal
	Dir   string `query:"dir"`  // asc|desc; por defecto desc
}

// StartDraftRequest body para POST /api/drafts. Sin invoice_id se crea una factura nueva.
type StartDraftRequest struct {
	InvoiceID string `json:"invoice_id,omitempty"`
}

// SetItemFieldRequest body para PATCH /api/drafts/:id/items/:index.
type SetItemFieldRequest struct {
	Field string `json:"field"` // description|quantity|unitPrice
	Value string `json:"value"`
}

// DraftHeaderRequest body para PUT /api/drafts/:id/header.
type DraftHeaderRequest struct {
	PatientID     string `json:"patient_id"`
	AppointmentID string `json:"appointment_id,omitempty"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	IssueDate     string `json:"issue_date,omitempty"`
	DueDate       string `json:"due_date,omitempty"`
	Status        string `json:"status,omitempty"`
}

// DraftResponse estado de un borrador con totales recalculados.
type DraftResponse struct {
	ID            string                `json:"id"`
	InvoiceID     string                `json:"invoice_id,omitempty"`
	PatientID     string                `json:"patient_id,omitempty"`
	AppointmentID string                `json:"appointment_id,omitempty"`
	InvoiceNumber string                `json:"invoice_number,omitempty"`
	IssueDate     string                `json:"issue_date"`
	DueDate       string                `json:"due_date,omitempty"`
	Status        string                `json:"status"`
	Items         []InvoiceItemResponse `json:"items"`
	Tax           TaxConfigDTO          `json:"tax"`
	Totals        TotalsResponse        `json:"totals"`
	Phase         string                `json:"phase"`
	Busy          bool                  `json:"busy"`
	UpdatedAt     time.Time             `json:"updated_at"`
}
