package server

// ErrorResponse is the uniform error payload returned by the API. Error is a
// machine-readable kind, Message the human-readable explanation. API keys
// never appear here.
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message" example:"must provide one of: html, image_url, or image_base64"`
}

// ProviderInfo describes one selectable AI provider for GET /api/providers.
type ProviderInfo struct {
	ID            string `json:"id" example:"openai"`
	Name          string `json:"name" example:"OpenAI GPT-4o"`
	HasDefaultKey bool   `json:"has_default_key" example:"false"`
}

// ProvidersResponse wraps the provider listing.
type ProvidersResponse struct {
	Providers []ProviderInfo `json:"providers"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Version string `json:"version" example:"0.1.0"`
}
