package models

// BatchJob tracks an in-flight or completed batch comparison.
type BatchJob struct {
	ID         string             `json:"id"`
	Status     string             `json:"status"` // "processing", "completed", "partial", "failed"
	Total      int                `json:"total"`
	Completed  int                `json:"completed"`
	Results    []*CompareResponse `json:"results"`
	WebhookURL string             `json:"-"`
	CreatedAt  int64              `json:"-"` // unix seconds, used for expiry
}

// BatchResponse acknowledges batch job creation.
type BatchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// BatchStatusResponse is the response for GET /api/v1/batch/:id.
type BatchStatusResponse struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"`
	Completed int                `json:"completed"`
	Total     int                `json:"total"`
	Results   []*CompareResponse `json:"results"`
}
