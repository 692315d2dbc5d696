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

var _ repository.PatientRepository = (*PatientRepo)(nil)

// PatientRepo implementación de PatientRepository (usable con pool o tx).
type PatientRepo struct {
	q Querier
}

// NewPatientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPatientRepository(q Querier) *PatientRepo {
	return &PatientRepo{q: q}
}

const patientColumns = `id, name, email, phone, date_of_birth, gender, address, created_at, updated_at`

// Create persiste un nuevo paciente.
func (r *PatientRepo) Create(ctx context.Context, p *entity.Patient) error {
	query := `
		INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, nullIfEmpty(p.Email), nullIfEmpty(p.Phone), p.DateOfBirth,
		nullIfEmpty(p.Gender), nullIfEmpty(p.Address), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

// GetByID obtiene un paciente por ID. (nil, nil) si no existe.
func (r *PatientRepo) GetByID(ctx context.Context, id string) (*entity.Patient, error) {
	row := r.q.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id)
	p, err := scanPatient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

// List lista pacientes por nombre con paginación.
func (r *PatientRepo) List(ctx context.Context, limit, offset int) ([]*entity.Patient, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+patientColumns+` FROM patients ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PatientRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM patients`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count patients: %w", err)
	}
	return n, nil
}

func scanPatient(row pgx.Row) (*entity.Patient, error) {
	var p entity.Patient
	var email, phone, gender, address *string
	if err := row.Scan(&p.ID, &p.Name, &email, &phone, &p.DateOfBirth, &gender, &address, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Email = derefStr(email)
	p.Phone = derefStr(phone)
	p.Gender = derefStr(gender)
	p.Address = derefStr(address)
	return &p, nil
}
