package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pathassist/lab-billing/internal/application/dto"
	"github.com/pathassist/lab-billing/internal/domain"
	engine "github.com/pathassist/lab-billing/internal/domain/billing"
	"github.com/pathassist/lab-billing/internal/domain/entity"
	"github.com/pathassist/lab-billing/internal/domain/repository"
)

// CatalogUseCase catálogo de servicios para autocompletar descripciones de línea.
type CatalogUseCase struct {
	repo repository.ServiceCatalogRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.ServiceCatalogRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo}
}

// List servicios cuyo nombre contiene query, en el orden del catálogo.
func (uc *CatalogUseCase) List(ctx context.Context, query string) ([]*dto.LabServiceResponse, error) {
	all, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	matches := engine.FilterServices(all, query)
	out := make([]*dto.LabServiceResponse, 0, len(matches))
	for _, s := range matches {
		out = append(out, &dto.LabServiceResponse{ID: s.ID, Name: s.Name})
	}
	return out, nil
}

// Create agrega un servicio al final del catálogo.
func (uc *CatalogUseCase) Create(ctx context.Context, in dto.CreateLabServiceRequest) (*dto.LabServiceResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = ServiceSlug(name)
	}
	existing, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: servicio %s", domain.ErrDuplicate, id)
	}
	svc := &entity.LabService{ID: id, Name: name, CreatedAt: time.Now()}
	if err := uc.repo.Create(ctx, svc); err != nil {
		return nil, err
	}
	return &dto.LabServiceResponse{ID: svc.ID, Name: svc.Name}, nil
}

// ServiceSlug id del catálogo derivado del nombre: "Vitamin D Test" -> "vitamin_d_test".
func ServiceSlug(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
