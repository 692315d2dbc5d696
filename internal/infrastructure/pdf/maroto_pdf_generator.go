// Package pdf genera la factura imprimible de un paciente.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Laboratorio + dirección  │  N° Factura + fechas    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PACIENTE: Nombre / contacto / edad                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Descripción | Cant | P.Unit | Total              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / CGST / SGST / TOTAL                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: estado de pago + leyenda                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appbilling "github.com/pathassist/lab-billing/internal/application/billing"
	engine "github.com/pathassist/lab-billing/internal/domain/billing"
	"github.com/pathassist/lab-billing/internal/domain/entity"
	"github.com/pathassist/lab-billing/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 13, Green: 110, Blue: 110}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

const displayDate = "02 Jan 2006"

// ── Generator ─────────────────────────────────────────────────────────────────

// LabInfo datos del laboratorio emisor impresos en el encabezado.
type LabInfo struct {
	Name    string
	Address string
}

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	lab LabInfo
	now func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(lab LabInfo) *MarotoPDFGenerator {
	if lab.Name == "" {
		lab.Name = "PathAssist Diagnostics"
	}
	return &MarotoPDFGenerator{lab: lab, now: time.Now}
}

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc appbilling.InvoiceDocument) ([]byte, error) {
	if doc.Invoice == nil {
		return nil, fmt.Errorf("pdf: factura vacía")
	}
	inv := doc.Invoice

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Invoice "+inv.InvoiceNumber, true).
		WithAuthor(g.lab.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.lab, inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(patientRow(inv, doc.Patient, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableItemRows(inv.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(doc.Tax, doc.Totals)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(inv))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: laboratorio (izq) y número de factura + fechas (der).
func headerRow(lab LabInfo, inv *entity.Invoice) core.Row {
	due := "-"
	if inv.DueDate != nil {
		due = inv.DueDate.Format(displayDate)
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New(lab.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(lab.Address, "Pathology & Diagnostic Services"), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Issue date: "+inv.IssueDate.Format(displayDate), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
			text.New("Due date: "+due, props.Text{
				Size: 8, Align: align.Right, Top: 16, Color: colorGray,
			}),
		),
	)
}

// patientRow: datos del paciente facturado.
func patientRow(inv *entity.Invoice, p *entity.Patient, now time.Time) core.Row {
	name := nonEmpty(inv.PatientName, inv.PatientID)
	contact := "-"
	if p != nil {
		name = p.Name
		contact = fmt.Sprintf("Email: %s   |   Phone: %s", nonEmpty(p.Email, "-"), nonEmpty(p.Phone, "-"))
		if age, ok := p.Age(now); ok {
			contact += fmt.Sprintf("   |   Age: %d", age)
		}
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("BILL TO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 5,
			}),
			text.New(contact, props.Text{Size: 8, Top: 10, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Description", 5, align.Left),
		h("Qty", 1, align.Center),
		h("Unit price", 2, align.Right),
		h("Total", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableItemRows: una fila por línea; el total se recalcula, no se confía en el guardado.
func tableItemRows(items []entity.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i, it := range items {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", i+1),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(money.FormatCode(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(money.FormatCode(engine.ItemTotal(it)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRows: bloque de totales alineado a la derecha. Sin impuesto no se imprimen CGST/SGST.
func totalsRows(tax engine.TaxConfig, t engine.Totals) []core.Row {
	rows := []core.Row{totalLine("Subtotal:", t.Subtotal, false)}
	if tax.Applicable {
		rows = append(rows,
			totalLine(fmt.Sprintf("CGST (%s%%):", tax.CGSTRate.String()), t.CGSTAmount, false),
			totalLine(fmt.Sprintf("SGST (%s%%):", tax.SGSTRate.String()), t.SGSTAmount, false),
		)
	}
	return append(rows, totalLine("TOTAL:", t.GrandTotal, true))
}

func totalLine(label string, amount decimal.Decimal, grand bool) core.Row {
	style := props.Text{Size: 9, Align: align.Right, Right: 1, Top: 1}
	height := 6.0
	if grand {
		style = props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: 1, Color: colorPrimary}
		height = 8
	}
	labelStyle := style
	labelStyle.Style = fontstyle.Bold
	return row.New(height).Add(
		col.New(6),
		col.New(3).Add(text.New(label, labelStyle)),
		col.New(3).Add(text.New(money.FormatCode(amount), style)),
	)
}

// footerRow: estado de pago y leyenda.
func footerRow(inv *entity.Invoice) core.Row {
	return row.New(12).Add(col.New(12).Add(
		text.New("Payment status: "+string(inv.Status), props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}),
		text.New("This is a computer generated invoice. Amounts in "+nonEmpty(inv.Currency, entity.DefaultCurrency)+".", props.Text{
			Size: 7, Color: colorGray, Top: 6,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
