package model

type ErrorResponse struct {
	Error  string `json:"detail"`
	Reason string `json:"reason,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
