package entity

// Roles válidos en el token. El paciente solo ve sus propias facturas.
const (
	RoleAdmin   = "admin"
	RolePatient = "patient"
)

// IsValidRole indica si el rol es conocido.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RolePatient
}
