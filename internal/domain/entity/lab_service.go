package entity

import "time"

// LabService servicio del catálogo (prueba de laboratorio) usado como descripción de línea.
type LabService struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
