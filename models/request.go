package models

// CompareRequest is the payload for POST /api/v1/compare.
type CompareRequest struct {
	// Query is the free-text product search. Required.
	Query string `json:"query" binding:"required"`

	// Timeout is the maximum duration in seconds granted to each source
	// adapter. Default: 20. Max: 60.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=60"`
}

// Defaults applies default values to unset fields.
func (r *CompareRequest) Defaults() {
	if r.Timeout == 0 {
		r.Timeout = 20
	}
}

// BatchOptions holds per-query options shared by all queries in a batch.
type BatchOptions struct {
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=60"`
}

// BatchCompareRequest is the payload for POST /api/v1/batch/compare.
type BatchCompareRequest struct {
	// Queries lists the product searches to run. Required, max 50.
	Queries []string `json:"queries" binding:"required,min=1"`

	// Options applies to every query in the batch.
	Options BatchOptions `json:"options,omitempty"`

	// WebhookURL, if set, receives a signed batch.completed event when
	// the job reaches a terminal status.
	WebhookURL string `json:"webhook_url,omitempty" binding:"omitempty,url"`
}
