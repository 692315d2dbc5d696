package memory

import (
	"context"

	"github.com/pathassist/lab-billing/internal/domain/entity"
	"github.com/pathassist/lab-billing/internal/domain/repository"
)

// ServiceCatalogRepository catálogo en memoria, en orden de inserción.
type ServiceCatalogRepository struct {
	store *Store
}

// NewServiceCatalogRepository construye el repositorio sobre el almacén.
func NewServiceCatalogRepository(store *Store) *ServiceCatalogRepository {
	return &ServiceCatalogRepository{store: store}
}

var _ repository.ServiceCatalogRepository = (*ServiceCatalogRepository)(nil)

func (r *ServiceCatalogRepository) List(ctx context.Context) ([]*entity.LabService, error) {
	if err := r.store.wait(ctx, r.store.latency.Read); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*entity.LabService, 0, len(r.store.services))
	for _, s := range r.store.services {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *ServiceCatalogRepository) GetByID(ctx context.Context, id string) (*entity.LabService, error) {
	if err := r.store.wait(ctx, r.store.latency.Read); err != nil {
		return nil, err
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, s := range r.store.services {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ServiceCatalogRepository) Create(ctx context.Context, svc *entity.LabService) error {
	if err := r.store.wait(ctx, r.store.latency.Write); err != nil {
		return err
	}
	cp := *svc
	r.store.mu.Lock()
	r.store.services = append(r.store.services, &cp)
	r.store.mu.Unlock()
	return nil
}
