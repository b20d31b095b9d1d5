package dto

// RootResponse is served on the API root.
type RootResponse struct {
	Message string `json:"message"`
}

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
}

// DiagnosticsResponse summarises backend and database connectivity.
type DiagnosticsResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}
