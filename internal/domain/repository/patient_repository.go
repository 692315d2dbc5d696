package repository

import (
	"context"

	"github.com/pathassist/lab-billing/internal/domain/entity"
)

// PatientRepository define el puerto de persistencia para Patient.
type PatientRepository interface {
	Create(ctx context.Context, patient *entity.Patient) error
	GetByID(ctx context.Context, id string) (*entity.Patient, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Patient, error)
	Count(ctx context.Context) (int, error)
}
