package models

import "time"

type SearchCreateResponse struct {
	SearchID  string       `json:"search_id"`
	Status    SearchStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

type ConnectorHealthItem struct {
	Source        string     `json:"source"`
	Status        string     `json:"status"`
	LastLatencyMS *int64     `json:"last_latency_ms,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
	LastCheckedAt *time.Time `json:"last_checked_at,omitempty"`
}

type ConnectorHealthResponse struct {
	Connectors []ConnectorHealthItem `json:"connectors"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
