package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Importes en INR con impuesto incluido, salvo en TopServices.
type DashboardSummaryDTO struct {
	TotalPatients int `json:"total_patients"`
	TotalInvoices int `json:"total_invoices"`

	// Facturas pagadas emitidas hoy y en el mes en curso (día 1 – hoy)
	TodayRevenue   decimal.Decimal `json:"today_revenue"`
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"`

	// Suma de facturas Pending, sin importar la fecha
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`

	ByStatus map[string]StatusSummaryDTO `json:"by_status"`

	// Top 5 descripciones por subtotal del mes
	TopServices []TopServiceDTO `json:"top_services"`

	DateLabel string `json:"date_label"` // ej: "August 2024"
}

// StatusSummaryDTO conteo y total de las facturas de un estado.
type StatusSummaryDTO struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// TopServiceDTO resumen de un servicio facturado en el mes.
type TopServiceDTO struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}
