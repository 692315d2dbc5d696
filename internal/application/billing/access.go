package billing

import (
	"github.com/pathassist/lab-billing/internal/domain"
	"github.com/pathassist/lab-billing/internal/domain/entity"
)

// Requester identidad de quien consulta, tomada del token.
type Requester struct {
	Role      string
	PatientID string
}

// AdminRequester identidad con acceso completo (tareas internas y tests).
func AdminRequester() Requester { return Requester{Role: entity.RoleAdmin} }

// IsAdmin indica si el solicitante ve todas las facturas.
func (r Requester) IsAdmin() bool { return r.Role == entity.RoleAdmin }

// authorize devuelve ErrForbidden si un paciente intenta ver la factura de otro.
func (r Requester) authorize(inv *entity.Invoice) error {
	if r.IsAdmin() {
		return nil
	}
	if r.Role != entity.RolePatient || r.PatientID == "" || inv.PatientID != r.PatientID {
		return domain.ErrForbidden
	}
	return nil
}
