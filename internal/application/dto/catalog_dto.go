package dto

// CreateLabServiceRequest body para POST /api/services. Sin id se deriva uno del nombre.
type CreateLabServiceRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// LabServiceResponse servicio del catálogo.
type LabServiceResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
