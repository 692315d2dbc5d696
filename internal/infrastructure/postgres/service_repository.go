package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/pathassist/lab-billing/internal/domain"
	"github.com/pathassist/lab-billing/internal/domain/entity"
	"github.com/pathassist/lab-billing/internal/domain/repository"
)

var _ repository.ServiceCatalogRepository = (*ServiceCatalogRepo)(nil)

// ServiceCatalogRepo catálogo de servicios en lab_services, ordenado por position.
type ServiceCatalogRepo struct {
	q Querier
}

// NewServiceCatalogRepository construye el adaptador.
func NewServiceCatalogRepository(q Querier) *ServiceCatalogRepo {
	return &ServiceCatalogRepo{q: q}
}

func (r *ServiceCatalogRepo) List(ctx context.Context) ([]*entity.LabService, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, created_at FROM lab_services ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list lab services: %w", err)
	}
	defer rows.Close()
	var list []*entity.LabService
	for rows.Next() {
		var s entity.LabService
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan lab service: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

func (r *ServiceCatalogRepo) GetByID(ctx context.Context, id string) (*entity.LabService, error) {
	var s entity.LabService
	err := r.q.QueryRow(ctx, `SELECT id, name, created_at FROM lab_services WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lab service: %w", err)
	}
	return &s, nil
}

// Create agrega el servicio al final del catálogo.
func (r *ServiceCatalogRepo) Create(ctx context.Context, s *entity.LabService) error {
	query := `
		INSERT INTO lab_services (id, name, position, created_at)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position), 0) + 1 FROM lab_services), $3)`
	if _, err := r.q.Exec(ctx, query, s.ID, s.Name, s.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lab service: %w", err)
	}
	return nil
}
