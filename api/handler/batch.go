package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/pricescout/aggregate"
	"github.com/use-agent/pricescout/models"
	"github.com/use-agent/pricescout/query"
	"github.com/use-agent/pricescout/webhook"
)

// batchStore holds all in-flight and completed batch jobs.
var batchStore sync.Map

func init() {
	// Background goroutine to expire batch jobs older than 1 hour.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-1 * time.Hour).Unix()
			batchStore.Range(func(key, value any) bool {
				job := value.(*models.BatchJob)
				if job.CreatedAt < cutoff {
					batchStore.Delete(key)
				}
				return true
			})
		}
	}()
}

// PostBatch returns a handler for POST /api/v1/batch/compare.
// It validates the request, creates a batch job, and launches goroutines
// to compare each query concurrently.
func PostBatch(agg *aggregate.Aggregator, webhookSecret string, maxConcurrent int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.BatchCompareRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		if len(req.Queries) > 50 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "maximum 50 queries per batch",
				},
			})
			return
		}

		jobID := "batch-" + randomID()
		job := &models.BatchJob{
			ID:         jobID,
			Status:     "processing",
			Total:      len(req.Queries),
			Completed:  0,
			Results:    make([]*models.CompareResponse, len(req.Queries)),
			WebhookURL: req.WebhookURL,
			CreatedAt:  time.Now().Unix(),
		}
		batchStore.Store(jobID, job)

		// Launch comparisons in background.
		go runBatch(agg, job, req, webhookSecret, maxConcurrent)

		c.JSON(http.StatusOK, models.BatchResponse{
			ID:     jobID,
			Status: "processing",
			Total:  len(req.Queries),
		})
	}
}

// GetBatch returns a handler for GET /api/v1/batch/:id.
func GetBatch() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("id")
		val, ok := batchStore.Load(jobID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "batch job not found",
				},
			})
			return
		}

		job := val.(*models.BatchJob)
		c.JSON(http.StatusOK, models.BatchStatusResponse{
			ID:        job.ID,
			Status:    job.Status,
			Completed: job.Completed,
			Total:     job.Total,
			Results:   job.Results,
		})
	}
}

// runBatch processes all queries in a batch job with concurrency limited
// by a semaphore. Duplicate queries (after normalization) share one
// comparison so a sloppy batch doesn't hit the same storefront twice.
func runBatch(agg *aggregate.Aggregator, job *models.BatchJob, req models.BatchCompareRequest, webhookSecret string, maxConcurrent int) {
	if maxConcurrent <= 0 {
		maxConcurrent = 3
	}
	sem := make(chan struct{}, maxConcurrent)

	var wg sync.WaitGroup
	var completed atomic.Int32
	var failed atomic.Int32

	// Dedup: first index per normalized query runs, the rest copy.
	firstIdx := make(map[string]int, len(req.Queries))
	dupOf := make([]int, len(req.Queries))
	for i, q := range req.Queries {
		key := query.Key(q)
		if prev, seen := firstIdx[key]; seen {
			dupOf[i] = prev
		} else {
			firstIdx[key] = i
			dupOf[i] = -1
		}
	}

	for i, rawQuery := range req.Queries {
		if dupOf[i] >= 0 {
			continue
		}
		wg.Add(1)
		go func(idx int, q string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			resp := compareOne(agg, q, req.Options.Timeout)
			job.Results[idx] = resp

			if resp.Success {
				completed.Add(1)
			} else {
				failed.Add(1)
			}
			job.Completed = int(completed.Load()) + int(failed.Load())
		}(i, rawQuery)
	}

	wg.Wait()

	// Fill in duplicates from their originals.
	for i, src := range dupOf {
		if src >= 0 {
			job.Results[i] = job.Results[src]
			if job.Results[i] != nil && job.Results[i].Success {
				completed.Add(1)
			} else {
				failed.Add(1)
			}
		}
	}

	failedCount := int(failed.Load())
	completedCount := int(completed.Load())

	switch {
	case failedCount == job.Total:
		job.Status = "failed"
	case failedCount > 0:
		job.Status = "partial"
	default:
		job.Status = "completed"
	}
	job.Completed = completedCount + failedCount

	slog.Info("batch job finished",
		"id", job.ID,
		"status", job.Status,
		"completed", completedCount,
		"failed", failedCount,
		"total", job.Total,
	)

	if job.WebhookURL != "" {
		webhook.DeliverAsync(job.WebhookURL, webhookSecret, &webhook.Event{
			Type:      "batch.completed",
			JobID:     job.ID,
			Timestamp: time.Now().Unix(),
			Data: models.BatchStatusResponse{
				ID:        job.ID,
				Status:    job.Status,
				Completed: job.Completed,
				Total:     job.Total,
				Results:   job.Results,
			},
		})
	}
}

// compareOne runs a single comparison for one query in a batch.
func compareOne(agg *aggregate.Aggregator, rawQuery string, timeoutSec int) *models.CompareResponse {
	if timeoutSec <= 0 {
		timeoutSec = 20
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	totalStart := time.Now()

	result, err := agg.Aggregate(ctx, rawQuery)
	if err != nil {
		var cmpErr *models.CompareError
		if !errors.As(err, &cmpErr) {
			cmpErr = models.NewCompareError(models.ErrCodeInternal, err.Error(), err)
		}
		return &models.CompareResponse{
			Success: false,
			Query:   rawQuery,
			Error:   cmpErr.ToDetail(),
			Timing: models.TimingInfo{
				TotalMs: time.Since(totalStart).Milliseconds(),
			},
		}
	}

	return &models.CompareResponse{
		Success:         true,
		Query:           result.Query,
		NormalizedQuery: result.NormalizedQuery,
		Offers:          result.Offers,
		Best:            result.Best,
		Summary:         result.Summary,
		Timing: models.TimingInfo{
			TotalMs: time.Since(totalStart).Milliseconds(),
		},
	}
}

// randomID generates a short random hex string for job IDs.
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
