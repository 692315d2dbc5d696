package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pathassist/lab-billing/internal/application/dto"
	"github.com/pathassist/lab-billing/internal/domain"
	"github.com/pathassist/lab-billing/internal/domain/entity"
	"github.com/pathassist/lab-billing/internal/domain/repository"
)

// PatientUseCase casos de uso para pacientes (receptores de factura).
type PatientUseCase struct {
	repo repository.PatientRepository
}

// NewPatientUseCase construye el caso de uso.
func NewPatientUseCase(repo repository.PatientRepository) *PatientUseCase {
	return &PatientUseCase{repo: repo}
}

// Create registra un paciente. El nombre es obligatorio.
func (uc *PatientUseCase) Create(ctx context.Context, in dto.CreatePatientRequest) (*dto.PatientResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	dob, err := parseDate(in.DateOfBirth)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	patient := &entity.Patient{
		ID:          uuid.New().String(),
		Name:        name,
		Email:       defaultEmail(name, in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		DateOfBirth: dob,
		Gender:      in.Gender,
		Address:     in.Address,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	return toPatientResponse(patient, now), nil
}

// Get obtiene un paciente. Un paciente solo puede verse a sí mismo.
func (uc *PatientUseCase) Get(ctx context.Context, req Requester, id string) (*dto.PatientResponse, error) {
	if !req.IsAdmin() && req.PatientID != id {
		return nil, domain.ErrForbidden
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPatientResponse(p, time.Now()), nil
}

// List lista pacientes paginados.
func (uc *PatientUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.PatientResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]*dto.PatientResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPatientResponse(p, now))
	}
	return out, nil
}

// defaultEmail sin email se asigna uno provisional derivado del nombre.
func defaultEmail(name, email string) string {
	if e := strings.TrimSpace(email); e != "" {
		return e
	}
	return strings.ToLower(strings.Join(strings.Fields(name), ".")) + "@pathassist-temp.com"
}
