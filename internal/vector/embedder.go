package vector

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"crewmatch/internal/config"
)

// Embedder produces an embedding vector for a piece of text.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// GeminiEmbedder implements Embedder on the Gemini embedding API.
type GeminiEmbedder struct {
	client *genai.Client
	config *config.Config
}

// NewGeminiEmbedder creates an embedder backed by the configured Gemini model.
func NewGeminiEmbedder(ctx context.Context, cfg *config.Config) (*GeminiEmbedder, error) {
	if cfg.Embeddings.APIKey == "" {
		return nil, fmt.Errorf("embeddings API key not configured - set GEMINI_API_KEY environment variable")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Embeddings.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings client: %w", err)
	}

	return &GeminiEmbedder{client: client, config: cfg}, nil
}

// EmbedText embeds a single text document.
func (e *GeminiEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	ctx, cancel := context.WithTimeout(ctx, e.config.Embeddings.Timeout)
	defer cancel()

	resp, err := e.client.Models.EmbedContent(ctx, e.config.Embeddings.Model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call embeddings API: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("empty embedding response")
	}

	return resp.Embeddings[0].Values, nil
}
