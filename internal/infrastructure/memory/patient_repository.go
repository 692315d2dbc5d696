package memory

import (
	"context"

	"github.com/pathassist/lab-billing/internal/domain/entity"
	"github.com/pathassist/lab-billing/internal/domain/repository"
)

// PatientRepository implementación en memoria de repository.PatientRepository.
type PatientRepository struct {
	store *Store
}

// NewPatientRepository construye el repositorio sobre el almacén.
func NewPatientRepository(store *Store) *PatientRepository {
	return &PatientRepository{store: store}
}

var _ repository.PatientRepository = (*PatientRepository)(nil)

func (r *PatientRepository) Create(ctx context.Context, p *entity.Patient) error {
	if err := r.store.wait(ctx, r.store.latency.Write); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.patients = append(r.store.patients, clonePatient(p))
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *PatientRepository) GetByID(ctx context.Context, id string) (*entity.Patient, error) {
	if err := r.store.wait(ctx, r.store.latency.Read); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, p := range r.store.patients {
		if p.ID == id {
			return clonePatient(p), nil
		}
	}
	return nil, nil
}

func (r *PatientRepository) List(ctx context.Context, limit, offset int) ([]*entity.Patient, error) {
	if err := r.store.wait(ctx, r.store.latency.Read); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if offset >= len(r.store.patients) {
		return []*entity.Patient{}, nil
	}
	end := min(offset+limit, len(r.store.patients))
	out := make([]*entity.Patient, 0, end-offset)
	for _, p := range r.store.patients[offset:end] {
		out = append(out, clonePatient(p))
	}
	return out, nil
}

func (r *PatientRepository) Count(ctx context.Context) (int, error) {
	if err := r.store.wait(ctx, r.store.latency.Read); err != nil {
		return 0, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.patients), nil
}
