package dto

import "time"

// CreatePatientRequest body para POST /api/patients.
type CreatePatientRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"` // 2006-01-02
	Gender      string `json:"gender,omitempty"`
	Address     string `json:"address,omitempty"`
}

// PatientResponse paciente en respuestas.
type PatientResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	DateOfBirth string    `json:"date_of_birth,omitempty"`
	Age         *int      `json:"age,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
