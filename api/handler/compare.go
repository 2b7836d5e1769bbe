package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/pricescout/aggregate"
	"github.com/use-agent/pricescout/models"
)

// Compare returns a handler for POST /api/v1/compare.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Aggregator.Aggregate → offers + best (records sources_ms).
//  3. Fill Timing, return 200 — or map the error code to a status.
func Compare(agg *aggregate.Aggregator) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.CompareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.CompareResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		// ── 2. Aggregate ────────────────────────────────────────────
		// The request timeout bounds the whole comparison; each source
		// still has its own independent deadline underneath.
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(req.Timeout)*time.Second)
		defer cancel()

		sourcesStart := time.Now()
		result, err := agg.Aggregate(ctx, req.Query)
		sourcesMs := time.Since(sourcesStart).Milliseconds()

		if err != nil {
			respondError(c, err, models.TimingInfo{
				TotalMs:   time.Since(totalStart).Milliseconds(),
				SourcesMs: sourcesMs,
			})
			return
		}

		// ── 3. Respond ──────────────────────────────────────────────
		c.JSON(http.StatusOK, models.CompareResponse{
			Success:         true,
			Query:           result.Query,
			NormalizedQuery: result.NormalizedQuery,
			Offers:          result.Offers,
			Best:            result.Best,
			Summary:         result.Summary,
			Timing: models.TimingInfo{
				TotalMs:   time.Since(totalStart).Milliseconds(),
				SourcesMs: sourcesMs,
			},
		})
	}
}

// respondError maps a CompareError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error, timing models.TimingInfo) {
	cmpErr, ok := err.(*models.CompareError)
	if !ok {
		cmpErr = models.NewCompareError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(cmpErr), models.CompareResponse{
		Success: false,
		Error:   cmpErr.ToDetail(),
		Timing:  timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes. An empty
// comparison (NO_OFFERS_FOUND) is 404 so clients can tell "nothing
// matched" apart from a server failure.
func mapErrorToStatus(e *models.CompareError) int {
	switch e.Code {
	case models.ErrCodeNoOffers:
		return http.StatusNotFound // 404
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
