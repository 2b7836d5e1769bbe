package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/use-agent/pricescout/config"
)

func testClient(baseURL string) *Client {
	return NewClient(config.CatalogConfig{
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
	})
}

func TestSearch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[
			{"id":1,"title":"Acme Phone","price":10.5,"thumbnail":"https://cdn.example.com/1.jpg"},
			{"id":2,"title":"Acme Phone Pro","price":15,"thumbnail":"https://cdn.example.com/2.jpg"}
		]}`))
	}))
	defer srv.Close()

	items := testClient(srv.URL).Search(context.Background(), "acme phone")

	if gotPath != "/products/search?q=acme+phone" {
		t.Errorf("request path = %q", gotPath)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != 1 || items[0].NativePrice != 10.5 {
		t.Errorf("first item = %+v", items[0])
	}
	if items[1].Title != "Acme Phone Pro" {
		t.Errorf("second item = %+v", items[1])
	}
}

func TestSearch_DropsNonPositivePrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"products":[
			{"id":1,"title":"Free Thing","price":0},
			{"id":2,"title":"Broken Thing","price":-3},
			{"id":3,"title":"Real Thing","price":9.99}
		]}`))
	}))
	defer srv.Close()

	items := testClient(srv.URL).Search(context.Background(), "thing")

	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].ID != 3 {
		t.Errorf("surviving item = %+v, want id 3", items[0])
	}
}

func TestSearch_FailuresReturnEmpty(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		if items := testClient(srv.URL).Search(context.Background(), "x"); len(items) != 0 {
			t.Errorf("got %d items, want 0", len(items))
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"products": not json`))
		}))
		defer srv.Close()
		if items := testClient(srv.URL).Search(context.Background(), "x"); len(items) != 0 {
			t.Errorf("got %d items, want 0", len(items))
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		c := testClient("http://127.0.0.1:1")
		if items := c.Search(context.Background(), "x"); len(items) != 0 {
			t.Errorf("got %d items, want 0", len(items))
		}
	})
}

func TestDetailURL(t *testing.T) {
	c := testClient("https://dummyjson.com")
	if got := c.DetailURL(42); got != "https://dummyjson.com/products/42" {
		t.Errorf("DetailURL(42) = %q", got)
	}
}
