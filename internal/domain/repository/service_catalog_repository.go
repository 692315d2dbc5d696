package repository

import (
	"context"

	"github.com/pathassist/lab-billing/internal/domain/entity"
)

// ServiceCatalogRepository catálogo ordenado de servicios de laboratorio.
type ServiceCatalogRepository interface {
	List(ctx context.Context) ([]*entity.LabService, error)
	GetByID(ctx context.Context, id string) (*entity.LabService, error)
	Create(ctx context.Context, service *entity.LabService) error
}
