package billing

import (
	"strings"

	"github.com/pathassist/lab-billing/internal/domain/entity"
)

// FilterServices autocompletado de descripciones: coincidencia parcial sin distinguir
// mayúsculas, conservando el orden del catálogo. Consulta vacía devuelve todo.
func FilterServices(services []*entity.LabService, query string) []*entity.LabService {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*entity.LabService, 0, len(services))
	for _, s := range services {
		if q == "" || strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
		}
	}
	return out
}

// IsCatalogDescription indica si la descripción corresponde a un servicio del catálogo.
// Las descripciones libres también son válidas; esto solo sirve para mostrar la selección.
func IsCatalogDescription(services []*entity.LabService, description string) bool {
	d := strings.TrimSpace(description)
	for _, s := range services {
		if strings.EqualFold(s.Name, d) {
			return true
		}
	}
	return false
}
