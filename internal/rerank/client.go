package rerank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"crewmatch/internal/config"
	"crewmatch/internal/logging"
)

// Result is one reranked document with its relevance score.
type Result struct {
	Index int     `json:"index"`
	Score float64 `json:"relevance_score"`
}

// Reranker scores N documents against one query.
type Reranker interface {
	Rerank(ctx context.Context, query string, documents []string, topN int) ([]Result, error)
}

// Client implements Reranker against a Jina-compatible /rerank HTTP API.
type Client struct {
	config     *config.Config
	httpClient *http.Client
	logger     logging.Logger
}

// NewClient creates a rerank client from configuration.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		config:     cfg,
		httpClient: &http.Client{Timeout: cfg.Rerank.Timeout},
		logger:     logging.GetGlobalLogger(),
	}
}

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n,omitempty"`
}

type rerankResponse struct {
	Results []Result `json:"results"`
}

// Rerank sends the query and documents to the rerank API and returns results
// ordered by relevance descending. Transient failures are retried with a
// short backoff up to the configured attempt count.
func (c *Client) Rerank(ctx context.Context, query string, documents []string, topN int) ([]Result, error) {
	if c.config.Rerank.BaseURL == "" {
		return nil, fmt.Errorf("rerank base URL not configured - set RERANK_BASE_URL environment variable")
	}
	if len(documents) == 0 {
		return nil, nil
	}

	payload, err := json.Marshal(rerankRequest{
		Model:     c.config.Rerank.Model,
		Query:     query,
		Documents: documents,
		TopN:      topN,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rerank request: %w", err)
	}

	var lastErr error
	attempts := c.config.Rerank.MaxRetries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		results, err := c.doRequest(ctx, payload)
		if err == nil {
			return results, nil
		}
		lastErr = err
		c.logger.Warn("Rerank request failed", map[string]interface{}{
			"attempt": attempt + 1,
			"error":   err.Error(),
		})
	}

	return nil, fmt.Errorf("rerank failed after %d attempts: %w", attempts, lastErr)
}

func (c *Client) doRequest(ctx context.Context, payload []byte) ([]Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Rerank.BaseURL+"/rerank", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.Rerank.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Rerank.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rerank request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rerank response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rerank API returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed rerankResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse rerank response: %w", err)
	}

	return parsed.Results, nil
}
