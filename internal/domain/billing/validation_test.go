package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pathassist/lab-billing/internal/domain"
	"github.com/pathassist/lab-billing/internal/domain/billing"
	"github.com/pathassist/lab-billing/internal/domain/entity"
)

func TestValidateForSubmission(t *testing.T) {
	valid := item("CBC", "1", "500")

	tests := []struct {
		name    string
		items   []entity.InvoiceItem
		patient string
		wantErr error
	}{
		{name: "válida", items: []entity.InvoiceItem{valid, item("Lab Fee", "1", "0")}, patient: "patient1"},
		{name: "sin paciente", items: []entity.InvoiceItem{valid}, patient: "", wantErr: domain.ErrMissingPatient},
		{name: "paciente en blanco", items: []entity.InvoiceItem{valid}, patient: "   ", wantErr: domain.ErrMissingPatient},
		{name: "sin líneas", items: nil, patient: "patient1", wantErr: domain.ErrInvalidLineItem},
		{name: "descripción vacía", items: []entity.InvoiceItem{valid, item("", "1", "10")}, patient: "patient1", wantErr: domain.ErrInvalidLineItem},
		{name: "cantidad cero", items: []entity.InvoiceItem{item("CBC", "0", "500")}, patient: "patient1", wantErr: domain.ErrInvalidLineItem},
		{name: "cantidad negativa", items: []entity.InvoiceItem{item("CBC", "-2", "500")}, patient: "patient1", wantErr: domain.ErrInvalidLineItem},
		{name: "precio negativo con otras líneas válidas", items: []entity.InvoiceItem{valid, item("Descuento", "1", "-1"), valid}, patient: "patient1", wantErr: domain.ErrInvalidLineItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := billing.ValidateForSubmission(tt.items, tt.patient)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateForSubmission_MensajeIndicaLinea(t *testing.T) {
	err := billing.ValidateForSubmission([]entity.InvoiceItem{item("CBC", "1", "500"), item("X", "1", "-1")}, "patient1")

	assert.ErrorContains(t, err, "línea 2")
}
