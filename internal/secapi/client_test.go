package secapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLatestByAccessionNoBuildsQuery(t *testing.T) {
	var got queryRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{
			"total": {"value": 1},
			"transactions": [{
				"accessionNo": "0001209191-24-000001",
				"issuer": {"tradingSymbol": "TSLA", "name": "Tesla, Inc."}
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL)
	doc, err := c.LatestByAccessionNo(context.Background(), "0001209191-24-000001")
	if err != nil {
		t.Fatalf("LatestByAccessionNo: %v", err)
	}
	if doc == nil {
		t.Fatal("expected a document")
	}
	if doc.Issuer.TradingSymbol != "TSLA" {
		t.Errorf("ticker = %q", doc.Issuer.TradingSymbol)
	}

	if auth != "test-key" {
		t.Errorf("Authorization header = %q", auth)
	}
	if want := `accessionNo:"0001209191-24-000001"`; got.Query.QueryString.Query != want {
		t.Errorf("query = %q, want %q", got.Query.QueryString.Query, want)
	}
	if got.From != 0 || got.Size != 1 {
		t.Errorf("paging = from %d size %d, want 0/1", got.From, got.Size)
	}
	if len(got.Sort) != 1 {
		t.Fatalf("sort clauses = %d", len(got.Sort))
	}
}

func TestLatestByAccessionNoNoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": {"value": 0}, "transactions": []}`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL)
	doc, err := c.LatestByAccessionNo(context.Background(), "missing")
	if err != nil {
		t.Fatalf("LatestByAccessionNo: %v", err)
	}
	if doc != nil {
		t.Errorf("expected nil document for zero matches, got %+v", doc)
	}
}

func TestSearchNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL)
	if _, err := c.Search(context.Background(), "formType:4", 0, 50); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
