package billing

import (
	"sort"
	"strings"

	"github.com/pathassist/lab-billing/internal/domain/entity"
)

// SortKey columna por la que se ordena el listado de facturas.
type SortKey string

const (
	SortByInvoiceNumber SortKey = "invoiceNumber"
	SortByPatientName   SortKey = "patientName"
	SortByIssueDate     SortKey = "issueDate"
	SortByDueDate       SortKey = "dueDate"
	SortByStatus        SortKey = "status"
	SortByGrandTotal    SortKey = "grandTotal"
)

// ParseSortKey valida la clave de orden. Vacía = fecha de emisión.
func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(strings.TrimSpace(s)); k {
	case "":
		return SortByIssueDate, true
	case SortByInvoiceNumber, SortByPatientName, SortByIssueDate, SortByDueDate, SortByStatus, SortByGrandTotal:
		return k, true
	}
	return "", false
}

// FilterInvoices busca el término en número de factura, nombre del paciente o
// descripción de alguna línea, sin distinguir mayúsculas.
func FilterInvoices(list []*entity.Invoice, term string) []*entity.Invoice {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return list
	}
	out := make([]*entity.Invoice, 0, len(list))
	for _, inv := range list {
		if matchesInvoice(inv, t) {
			out = append(out, inv)
		}
	}
	return out
}

func matchesInvoice(inv *entity.Invoice, t string) bool {
	if strings.Contains(strings.ToLower(inv.InvoiceNumber), t) ||
		strings.Contains(strings.ToLower(inv.PatientName), t) {
		return true
	}
	for _, item := range inv.Items {
		if strings.Contains(strings.ToLower(item.Description), t) {
			return true
		}
	}
	return false
}

// SortInvoices ordena una copia del listado (orden estable). Las facturas sin
// fecha de vencimiento quedan al final en ambas direcciones.
func SortInvoices(list []*entity.Invoice, key SortKey, ascending bool) []*entity.Invoice {
	out := make([]*entity.Invoice, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if key == SortByDueDate && (a.DueDate == nil || b.DueDate == nil) {
			return a.DueDate != nil && b.DueDate == nil
		}
		c := compareInvoices(a, b, key)
		if ascending {
			return c < 0
		}
		return c > 0
	})
	return out
}

func compareInvoices(a, b *entity.Invoice, key SortKey) int {
	switch key {
	case SortByInvoiceNumber:
		return strings.Compare(a.InvoiceNumber, b.InvoiceNumber)
	case SortByPatientName:
		return strings.Compare(strings.ToLower(a.PatientName), strings.ToLower(b.PatientName))
	case SortByStatus:
		return strings.Compare(string(a.Status), string(b.Status))
	case SortByGrandTotal:
		return a.GrandTotal().Cmp(b.GrandTotal())
	case SortByDueDate:
		return a.DueDate.Compare(*b.DueDate)
	default:
		return a.IssueDate.Compare(b.IssueDate)
	}
}
