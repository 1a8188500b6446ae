package rerank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"crewmatch/internal/config"
)

func rerankConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Rerank.BaseURL = baseURL
	cfg.Rerank.Model = "jina-reranker-v2-base-multilingual"
	cfg.Rerank.APIKey = "test-key"
	cfg.Rerank.Timeout = 2 * time.Second
	cfg.Rerank.MaxRetries = 2
	return cfg
}

func TestRerank_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rerank" {
			t.Errorf("path = %s, want /rerank", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}

		var req rerankRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Documents) != 3 || req.TopN != 2 {
			t.Errorf("documents = %d, top_n = %d", len(req.Documents), req.TopN)
		}

		json.NewEncoder(w).Encode(rerankResponse{Results: []Result{
			{Index: 2, Score: 0.95},
			{Index: 0, Score: 0.40},
		}})
	}))
	defer server.Close()

	c := NewClient(rerankConfig(server.URL))
	results, err := c.Rerank(context.Background(), "query", []string{"a", "b", "c"}, 2)
	if err != nil {
		t.Fatalf("Rerank: %v", err)
	}
	if len(results) != 2 || results[0].Index != 2 || results[1].Index != 0 {
		t.Errorf("results = %+v", results)
	}
}

func TestRerank_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(rerankResponse{Results: []Result{{Index: 0, Score: 0.8}}})
	}))
	defer server.Close()

	c := NewClient(rerankConfig(server.URL))
	results, err := c.Rerank(context.Background(), "query", []string{"a"}, 1)
	if err != nil {
		t.Fatalf("Rerank: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("results = %+v", results)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestRerank_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := NewClient(rerankConfig(server.URL))
	if _, err := c.Rerank(context.Background(), "query", []string{"a"}, 1); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want max_retries+1 = 3", calls.Load())
	}
}

func TestRerank_NoBaseURL(t *testing.T) {
	c := NewClient(rerankConfig(""))
	if _, err := c.Rerank(context.Background(), "query", []string{"a"}, 1); err == nil {
		t.Fatal("expected configuration error")
	}
}
