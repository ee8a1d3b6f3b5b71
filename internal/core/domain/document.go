package domain

// Document is the text-bearing unit handed to the indexing pipeline.
type Document struct {
	PageContent string `json:"page_content"`
}

type ExtractRequest struct {
	AppID    string         `json:"app_id"`
	UserID   string         `json:"user_id"`
	TenantID string         `json:"tenant_id"`
	Inputs   map[string]any `json:"inputs"`
}

type ExtractJob struct {
	JobID string `json:"job_id"`
	ExtractRequest
}

type ExtractResult struct {
	JobID     string     `json:"job_id"`
	AppID     string     `json:"app_id"`
	TenantID  string     `json:"tenant_id"`
	Documents []Document `json:"documents"`
	Error     string     `json:"error,omitempty"`
}
