package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathassist/lab-billing/internal/domain"
	"github.com/pathassist/lab-billing/internal/domain/billing"
	"github.com/pathassist/lab-billing/internal/domain/entity"
)

var now = time.Date(2024, 7, 25, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

// sesionValida sesión con paciente y una línea lista para enviar.
func sesionValida(t *testing.T) *billing.Session {
	t.Helper()
	s := billing.NewSession("draft-1", now, fixedClock)
	_, err := s.SetPatient("patient1")
	require.NoError(t, err)
	_, err = s.SetItemField(0, billing.FieldDescription, "Complete Blood Count (CBC)")
	require.NoError(t, err)
	_, err = s.SetItemField(0, billing.FieldUnitPrice, "500")
	require.NoError(t, err)
	return s
}

func TestNewSession(t *testing.T) {
	s := billing.NewSession("draft-1", now, fixedClock)

	snap := s.Snapshot()

	assert.Equal(t, "draft-1", snap.ID)
	assert.Equal(t, billing.PhaseDraft, snap.Phase)
	require.Len(t, snap.Items, 1)
	assertDec(t, "1", snap.Items[0].Quantity, "Quantity")
	assert.False(t, snap.Tax.Applicable)
	assert.Equal(t, entity.PaymentStatusPending, snap.Header.Status)
	assert.True(t, snap.Totals.GrandTotal.IsZero())
}

func TestNewSessionFromInvoice_InfiereTasas(t *testing.T) {
	inv := &entity.Invoice{
		ID:        "inv1",
		PatientID: "patient1",
		Items: []entity.InvoiceItem{
			item("Complete Blood Count (CBC)", "1", "500"),
			item("Syringe & Needle", "1", "100"),
			item("Lab Processing Fee", "1", "100"),
		},
		Amount:    d("700"),
		TaxAmount: d("126"),
	}

	snap := billing.NewSessionFromInvoice("draft-2", inv, fixedClock).Snapshot()

	assert.Equal(t, "inv1", snap.InvoiceID)
	assert.True(t, snap.Tax.Applicable)
	assertDec(t, "9", snap.Tax.CGSTRate, "CGST")
	assertDec(t, "126", snap.Totals.TaxAmount, "TaxAmount")
	assertDec(t, "826", snap.Totals.GrandTotal, "GrandTotal")
}

func TestSession_TotalesSeRecalculan(t *testing.T) {
	s := sesionValida(t)

	snap, err := s.SetItemField(0, billing.FieldQuantity, "2")
	require.NoError(t, err)
	assertDec(t, "1000", snap.Totals.Subtotal, "Subtotal")

	snap, err = s.SetTax(gst("9", "9"))
	require.NoError(t, err)
	assertDec(t, "1180", snap.Totals.GrandTotal, "GrandTotal")
}

func TestSession_SetTaxTasaNegativa(t *testing.T) {
	s := sesionValida(t)

	_, err := s.SetTax(gst("-1", "9"))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.False(t, s.Snapshot().Tax.Applicable, "la configuración no cambia")
}

func TestSession_RemoveItemUltimaLinea(t *testing.T) {
	s := sesionValida(t)

	_, err := s.RemoveItem(0)

	assert.ErrorIs(t, err, domain.ErrCannotRemoveLastItem)
	assert.Len(t, s.Snapshot().Items, 1)
}

func TestSession_SubmitExitoso(t *testing.T) {
	s := sesionValida(t)
	var recibido billing.Snapshot

	snap, err := s.Submit(context.Background(), func(_ context.Context, in billing.Snapshot) (string, error) {
		recibido = in
		assert.True(t, in.Busy, "el colaborador ve la sesión ocupada")
		return "inv-nueva", nil
	})

	require.NoError(t, err)
	assert.Equal(t, billing.PhaseSubmitted, snap.Phase)
	assert.Equal(t, "inv-nueva", snap.InvoiceID)
	assert.False(t, snap.Busy)
	assertDec(t, "500", recibido.Totals.Subtotal, "Subtotal enviado")

	_, err = s.AddItem()
	assert.ErrorIs(t, err, domain.ErrSessionSubmitted, "una sesión enviada queda congelada")
	_, err = s.Submit(context.Background(), func(context.Context, billing.Snapshot) (string, error) { return "x", nil })
	assert.ErrorIs(t, err, domain.ErrSessionSubmitted)
}

func TestSession_SubmitFallidoVuelveADraft(t *testing.T) {
	s := sesionValida(t)
	fallo := errors.New("almacenamiento no disponible")

	_, err := s.Submit(context.Background(), func(context.Context, billing.Snapshot) (string, error) {
		return "", fallo
	})

	assert.ErrorIs(t, err, fallo)
	snap := s.Snapshot()
	assert.Equal(t, billing.PhaseDraft, snap.Phase)
	assert.False(t, snap.Busy)
	assert.Equal(t, "Complete Blood Count (CBC)", snap.Items[0].Description, "los datos se conservan")

	_, err = s.AddItem()
	assert.NoError(t, err, "la sesión sigue editable")
}

func TestSession_SubmitInvalidoNoLlamaAlColaborador(t *testing.T) {
	s := billing.NewSession("draft-1", now, fixedClock)
	llamado := false

	_, err := s.Submit(context.Background(), func(context.Context, billing.Snapshot) (string, error) {
		llamado = true
		return "x", nil
	})

	assert.ErrorIs(t, err, domain.ErrMissingPatient)
	assert.False(t, llamado)
	assert.Equal(t, billing.PhaseDraft, s.Snapshot().Phase)
}

func TestSession_OcupadaDuranteElEnvio(t *testing.T) {
	s := sesionValida(t)
	enCurso := make(chan struct{})
	liberar := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		_, err := s.Submit(context.Background(), func(context.Context, billing.Snapshot) (string, error) {
			close(enCurso)
			<-liberar
			return "inv-nueva", nil
		})
		done <- err
	}()

	<-enCurso
	_, err := s.SetItemField(0, billing.FieldQuantity, "5")
	assert.ErrorIs(t, err, domain.ErrSessionBusy)
	_, err = s.Submit(context.Background(), func(context.Context, billing.Snapshot) (string, error) { return "otra", nil })
	assert.ErrorIs(t, err, domain.ErrSessionBusy, "no se permite un segundo envío")
	assert.True(t, s.Snapshot().Busy)

	close(liberar)
	require.NoError(t, <-done)
	assert.Equal(t, billing.PhaseSubmitted, s.Snapshot().Phase)
}

func TestSession_UpdatedAtSigueAlReloj(t *testing.T) {
	current := time.Date(2026, 10, 16, 20, 34, 50, 0, time.UTC)
	issue := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	s := billing.NewSession("draft-1", issue, func() time.Time { return current })

	snap := s.Snapshot()
	assert.Equal(t, issue, snap.Header.IssueDate)
	assert.Equal(t, current, snap.UpdatedAt, "la creación cuenta como cambio, no la fecha de emisión")

	current = current.Add(time.Hour)
	snap, err := s.AddItem()
	require.NoError(t, err)
	assert.Equal(t, current, snap.UpdatedAt)
}

func TestSession_SetHeaderAsignaPacienteYCabecera(t *testing.T) {
	s := sesionValida(t)
	due := time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)

	snap, err := s.SetHeader("patient2", billing.Header{InvoiceNumber: "INV-2024-0100", IssueDate: now, DueDate: &due})
	require.NoError(t, err)
	assert.Equal(t, "patient2", snap.PatientID)
	assert.Equal(t, "INV-2024-0100", snap.Header.InvoiceNumber)

	_, err = s.Submit(context.Background(), func(context.Context, billing.Snapshot) (string, error) { return "inv-nueva", nil })
	require.NoError(t, err)

	_, err = s.SetHeader("patient3", billing.Header{InvoiceNumber: "INV-2024-0200"})
	assert.ErrorIs(t, err, domain.ErrSessionSubmitted)
	snap = s.Snapshot()
	assert.Equal(t, "patient2", snap.PatientID, "un cambio rechazado no toca el paciente")
	assert.Equal(t, "INV-2024-0100", snap.Header.InvoiceNumber)
}
