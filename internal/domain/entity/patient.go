package entity

import "time"

// Patient representa un paciente del laboratorio (receptor de la factura).
type Patient struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	DateOfBirth *time.Time
	Gender      string
	Address     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Age edad en años cumplidos a la fecha now. ok=false si no hay fecha de nacimiento.
func (p *Patient) Age(now time.Time) (age int, ok bool) {
	if p.DateOfBirth == nil {
		return 0, false
	}
	dob := *p.DateOfBirth
	age = now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	return age, true
}
