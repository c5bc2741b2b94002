package models

// StatusUpdateResponse is the envelope of the JSON status endpoints.
type StatusUpdateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
	Status  string `json:"status,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
