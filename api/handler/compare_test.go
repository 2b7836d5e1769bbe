package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/pricescout/aggregate"
	"github.com/use-agent/pricescout/models"
	"github.com/use-agent/pricescout/source"
)

type staticSource struct {
	name  string
	offer *models.Offer
}

func (s *staticSource) Name() string { return s.name }

func (s *staticSource) FetchOffer(ctx context.Context, query string) (*models.Offer, error) {
	return s.offer, nil
}

type emptyCatalog struct{}

func (emptyCatalog) Search(ctx context.Context, query string) []models.CatalogItem { return nil }
func (emptyCatalog) DetailURL(id int) string                                       { return "" }

func newTestRouter(sources []source.Source) *gin.Engine {
	gin.SetMode(gin.TestMode)
	agg := aggregate.New(sources, emptyCatalog{}, aggregate.Config{
		SourceTimeout: 2 * time.Second,
	})
	r := gin.New()
	r.POST("/compare", Compare(agg))
	return r
}

func doCompare(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/compare", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCompareHappyPath(t *testing.T) {
	r := newTestRouter([]source.Source{
		&staticSource{name: "Amazon", offer: &models.Offer{
			Source: "Amazon", Title: "Widget", Price: 999, DetailURL: "https://example.com/w",
		}},
	})

	w := doCompare(t, r, `{"query":"  Widget  "}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var resp models.CompareResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success {
		t.Fatal("Success = false, want true")
	}
	if resp.NormalizedQuery != "widget" {
		t.Errorf("NormalizedQuery = %q, want %q", resp.NormalizedQuery, "widget")
	}
	if resp.Best == nil || resp.Best.Price != 999 {
		t.Errorf("Best = %+v, want price 999", resp.Best)
	}
	if resp.Summary == "" {
		t.Error("Summary is empty")
	}
}

func TestCompareNoOffersIs404(t *testing.T) {
	r := newTestRouter([]source.Source{
		&staticSource{name: "Amazon", offer: nil},
	})

	w := doCompare(t, r, `{"query":"nothing"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body: %s", w.Code, w.Body.String())
	}

	var resp models.CompareResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Success {
		t.Error("Success = true, want false")
	}
	if resp.Error == nil || resp.Error.Code != models.ErrCodeNoOffers {
		t.Errorf("Error = %+v, want code %s", resp.Error, models.ErrCodeNoOffers)
	}
}

func TestCompareMissingQueryIs400(t *testing.T) {
	r := newTestRouter(nil)

	w := doCompare(t, r, `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", w.Code, w.Body.String())
	}

	var resp models.CompareResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != models.ErrCodeInvalidInput {
		t.Errorf("Error = %+v, want code %s", resp.Error, models.ErrCodeInvalidInput)
	}
}

func TestGetBatchUnknownIDIs404(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/batch/:id", GetBatch())

	req := httptest.NewRequest(http.MethodGet, "/batch/batch-doesnotexist", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body: %s", w.Code, w.Body.String())
	}
}

func TestPostBatchRejectsOversizedRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	agg := aggregate.New(nil, emptyCatalog{}, aggregate.Config{})
	r := gin.New()
	r.POST("/batch/compare", PostBatch(agg, "", 3))

	queries := make([]string, 51)
	for i := range queries {
		queries[i] = "q"
	}
	body, _ := json.Marshal(map[string]any{"queries": queries})

	req := httptest.NewRequest(http.MethodPost, "/batch/compare", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body: %s", w.Code, w.Body.String())
	}
}
