// Package memory implementa los repositorios sobre un almacén en memoria con
// latencia simulada. Sirve para desarrollo local y como doble en los tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/pathassist/lab-billing/internal/domain/entity"
)

// Latency retardos simulados por tipo de operación.
type Latency struct {
	Read  time.Duration
	Write time.Duration
}

// DefaultLatency retardos de la API simulada del frontend (300 ms lectura, 500 ms escritura).
var DefaultLatency = Latency{Read: 300 * time.Millisecond, Write: 500 * time.Millisecond}

// Store almacén compartido por los repositorios en memoria.
type Store struct {
	mu       sync.RWMutex
	latency  Latency
	invoices []*entity.Invoice
	patients []*entity.Patient
	services []*entity.LabService
}

// NewStore almacén vacío.
func NewStore(latency Latency) *Store {
	return &Store{latency: latency}
}

// NewSeededStore almacén con los pacientes, el catálogo y las facturas de ejemplo.
func NewSeededStore(latency Latency) *Store {
	s := NewStore(latency)
	s.patients = SeedPatients()
	s.services = SeedServices()
	s.invoices = SeedInvoices()
	return s
}

// wait simula la latencia de red; respeta la cancelación del contexto.
func (s *Store) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	cp := *inv
	cp.Items = append([]entity.InvoiceItem(nil), inv.Items...)
	if inv.DueDate != nil {
		due := *inv.DueDate
		cp.DueDate = &due
	}
	return &cp
}

func clonePatient(p *entity.Patient) *entity.Patient {
	cp := *p
	if p.DateOfBirth != nil {
		dob := *p.DateOfBirth
		cp.DateOfBirth = &dob
	}
	return &cp
}
