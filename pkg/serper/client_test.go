package serper

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iWorld-y/value_radar/pkg/search"
)

func TestClient_Search(t *testing.T) {
	var gotKey, gotBody string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		json.NewEncoder(w).Encode(SearchResponse{
			Organic: []OrganicResult{
				{Title: "AAPL earnings", Link: "https://example.com/a", Snippet: "Apple reported...", Date: "Oct 5, 2024"},
				{Title: "AAPL ratios", Link: "https://example.com/b", Snippet: "P/E ratio..."},
			},
		})
	}))
	defer ts.Close()

	c := NewClient("test-key")
	c.baseURL = ts.URL

	resp, err := c.Search(context.Background(), &search.Request{Query: "AAPL financial ratios", MaxResults: 5})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if gotKey != "test-key" {
		t.Errorf("X-API-KEY = %q, want %q", gotKey, "test-key")
	}

	var req SearchRequest
	if err := json.Unmarshal([]byte(gotBody), &req); err != nil {
		t.Fatalf("request body is not valid JSON: %v", err)
	}
	if req.Query != "AAPL financial ratios" || req.Num != 5 {
		t.Errorf("request = %+v", req)
	}

	if len(resp.Results) != 2 {
		t.Fatalf("len(Results) = %d, want 2", len(resp.Results))
	}
	if resp.Results[0].URL != "https://example.com/a" || resp.Results[0].Content != "Apple reported..." {
		t.Errorf("Results[0] = %+v", resp.Results[0])
	}
}

func TestClient_Search_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Unauthorized"}`, http.StatusForbidden)
	}))
	defer ts.Close()

	c := NewClient("bad-key")
	c.baseURL = ts.URL

	if _, err := c.Search(context.Background(), &search.Request{Query: "AAPL"}); err == nil {
		t.Fatal("Search() with API error should fail")
	}
}
