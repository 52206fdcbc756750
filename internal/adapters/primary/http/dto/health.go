package dto

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

type HealthResponse struct {
	Status       string `json:"status"`
	ModelsLoaded bool   `json:"models_loaded"`
	Copra        bool   `json:"copra"`
	Error        string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
