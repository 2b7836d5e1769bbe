package models

// CompareResponse is the response for POST /api/v1/compare.
type CompareResponse struct {
	// Success indicates whether the comparison produced a best offer.
	Success bool `json:"success"`

	// Query is the raw input echoed back.
	Query string `json:"query,omitempty"`

	// NormalizedQuery is the canonical query sent to every source.
	NormalizedQuery string `json:"normalized_query,omitempty"`

	// Offers holds every usable offer in arrival order.
	Offers []Offer `json:"offers,omitempty"`

	// Best is the lowest-priced offer.
	Best *Offer `json:"best,omitempty"`

	// Summary is a one-sentence verdict embedding the best price.
	Summary string `json:"summary,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// SourcesMs is the time spent waiting for all source adapters.
	SourcesMs int64 `json:"sources_ms,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Uptime    string    `json:"uptime"`
	Sources   []string  `json:"sources"`
	PoolStats PoolStats `json:"pool_stats"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the browser page pool.
type PoolStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}
