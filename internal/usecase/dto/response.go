package dto

// HealthResponse - ответ health check
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}
