package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// Errores del motor de totales de factura. Todos son recuperables: el formulario
// se vuelve a presentar con el aviso y el usuario corrige.
var (
	ErrInvalidLineItem      = errors.New("línea de factura inválida")
	ErrCannotRemoveLastItem = errors.New("la factura debe tener al menos una línea")
	ErrMissingPatient       = errors.New("la factura no tiene paciente asignado")
	ErrInvalidNumber        = errors.New("valor numérico inválido")
	ErrItemIndexOutOfRange  = errors.New("índice de línea fuera de rango")
	ErrUnknownItemField     = errors.New("campo de línea desconocido")
	ErrSessionBusy          = errors.New("el borrador se está enviando")
	ErrSessionSubmitted     = errors.New("el borrador ya fue enviado")
)
