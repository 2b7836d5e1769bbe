package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// compareRequest mirrors the Pricescout API request model.
type compareRequest struct {
	Query   string `json:"query"`
	Timeout int    `json:"timeout,omitempty"`
}

// offer mirrors one offer in a Pricescout API response.
type offer struct {
	Source    string `json:"source"`
	Title     string `json:"title"`
	Price     int    `json:"price"`
	ImageURL  string `json:"image_url"`
	DetailURL string `json:"detail_url"`
}

// compareResponse mirrors the Pricescout API response model.
type compareResponse struct {
	Success         bool    `json:"success"`
	Query           string  `json:"query"`
	NormalizedQuery string  `json:"normalized_query"`
	Offers          []offer `json:"offers"`
	Best            *offer  `json:"best"`
	Summary         string  `json:"summary"`
	Error           *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// batchResponse mirrors the Pricescout batch API response.
type batchResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

// batchStatusResponse mirrors the Pricescout batch status API response.
type batchStatusResponse struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Completed int               `json:"completed"`
	Total     int               `json:"total"`
	Results   []json.RawMessage `json:"results"`
}

func main() {
	apiURL := os.Getenv("PRICESCOUT_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("PRICESCOUT_API_KEY")
	if apiKey == "" {
		fmt.Fprintln(os.Stderr, "PRICESCOUT_API_KEY is required")
		os.Exit(1)
	}

	s := server.NewMCPServer(
		"pricescout",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	comparePriceTool := mcp.NewTool("compare_price",
		mcp.WithDescription("Compare prices for a product across multiple shopping sites. Returns the offers found and the best (cheapest) one."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The product to search for, e.g. 'iphone 15' or 'running shoes'"),
		),
	)
	s.AddTool(comparePriceTool, handleComparePrice(apiURL, apiKey))

	batchCompareTool := mcp.NewTool("batch_compare",
		mcp.WithDescription("Compare prices for multiple products at once. Creates a batch job and waits for all comparisons to finish."),
		mcp.WithArray("queries",
			mcp.Required(),
			mcp.Description("List of products to search for"),
		),
	)
	s.AddTool(batchCompareTool, handleBatchCompare(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST request to the Pricescout API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, apiKey, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// pollJobCompletion polls a job endpoint until status is no longer "processing" or context is cancelled.
func pollJobCompletion(ctx context.Context, client *http.Client, apiURL, apiKey, endpoint string) ([]byte, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+endpoint, nil)
			if err != nil {
				return nil, fmt.Errorf("create poll request: %w", err)
			}
			req.Header.Set("X-API-Key", apiKey)

			resp, err := client.Do(req)
			if err != nil {
				return nil, fmt.Errorf("poll request failed: %w", err)
			}

			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("read poll response: %w", err)
			}

			// Quick check if still processing.
			var status struct {
				Status string `json:"status"`
			}
			if err := json.Unmarshal(body, &status); err != nil {
				return nil, fmt.Errorf("parse poll status: %w", err)
			}

			if status.Status != "processing" {
				return body, nil
			}
		}
	}
}

// formatComparison renders one comparison result as readable text.
func formatComparison(cr *compareResponse) string {
	var sb strings.Builder
	sb.WriteString(cr.Summary)
	sb.WriteString("\n\n")
	for _, o := range cr.Offers {
		sb.WriteString(fmt.Sprintf("- %s: ₹%d — %s\n  %s\n", o.Source, o.Price, o.Title, o.DetailURL))
	}
	return sb.String()
}

func handleComparePrice(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}

		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/compare", compareRequest{Query: query})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("compare request failed: %v", err)), nil
		}

		var cr compareResponse
		if err := json.Unmarshal(respBody, &cr); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse response: %v", err)), nil
		}

		if !cr.Success {
			errMsg := "comparison failed"
			if cr.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", cr.Error.Code, cr.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		return mcp.NewToolResultText(formatComparison(&cr)), nil
	}
}

func handleBatchCompare(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		queries, err := request.RequireStringSlice("queries")
		if err != nil {
			return mcp.NewToolResultError("queries is required and must be an array of strings"), nil
		}

		payload := map[string]interface{}{
			"queries": queries,
		}

		// POST to create batch job.
		respBody, err := apiPost(ctx, client, apiURL, apiKey, "/api/v1/batch/compare", payload)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("batch request failed: %v", err)), nil
		}

		var batchResp batchResponse
		if err := json.Unmarshal(respBody, &batchResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse batch response: %v", err)), nil
		}

		if batchResp.ID == "" {
			return mcp.NewToolResultError("batch job creation failed"), nil
		}

		// Poll for completion.
		resultBody, err := pollJobCompletion(ctx, client, apiURL, apiKey, "/api/v1/batch/"+batchResp.ID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("polling batch job failed: %v", err)), nil
		}

		var statusResp batchStatusResponse
		if err := json.Unmarshal(resultBody, &statusResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse batch status: %v", err)), nil
		}

		// Format results.
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("Batch %s: %s (%d/%d completed)\n\n", statusResp.ID, statusResp.Status, statusResp.Completed, statusResp.Total))

		for i, raw := range statusResp.Results {
			var cr compareResponse
			if err := json.Unmarshal(raw, &cr); err != nil {
				sb.WriteString(fmt.Sprintf("--- Result %d: parse error ---\n\n", i+1))
				continue
			}
			if cr.Success {
				sb.WriteString(fmt.Sprintf("--- [%d] %s ---\n%s\n", i+1, cr.Query, formatComparison(&cr)))
			} else {
				errMsg := "unknown error"
				if cr.Error != nil {
					errMsg = cr.Error.Message
				}
				sb.WriteString(fmt.Sprintf("--- [%d] %s FAILED: %s ---\n\n", i+1, cr.Query, errMsg))
			}
		}

		return mcp.NewToolResultText(sb.String()), nil
	}
}
