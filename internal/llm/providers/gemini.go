package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"crewmatch/internal/config"
	"crewmatch/internal/logging"
	"crewmatch/pkg/models"
)

const defaultGeminiModel = "gemini-2.5-pro"

// GeminiProvider implements the LLM provider interface using Google's Gemini
type GeminiProvider struct {
	client *genai.Client
	config *config.Config
	model  string
	logger logging.Logger
}

// NewGeminiProvider creates a new Gemini provider instance
func NewGeminiProvider(cfg *config.Config) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.LLM.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := strings.TrimSpace(cfg.LLM.Model)
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiProvider{
		client: client,
		config: cfg,
		model:  model,
		logger: logging.GetGlobalLogger(),
	}, nil
}

// complete sends a single prompt to Gemini and returns the concatenated text
// response with any markdown fencing removed.
func (gp *GeminiProvider) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := gp.client.Models.GenerateContent(ctx, gp.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			builder.WriteString(part.Text)
		}
	}

	text := strings.TrimSpace(builder.String())
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}

	return stripMarkdownFences(text), nil
}

// ExtractRequirements parses the job brief into structured requirements using Gemini
func (gp *GeminiProvider) ExtractRequirements(ctx context.Context, job *models.JobSpec) (*models.Requirements, error) {
	gp.logger.Info("Starting requirement extraction with Gemini", map[string]interface{}{
		"job_id":       job.ID,
		"brief_length": len(job.Brief),
		"provider":     "gemini",
	})

	responseText, err := gp.complete(ctx, buildExtractionPrompt(job))
	if err != nil {
		return nil, err
	}

	var req models.Requirements
	if err := json.Unmarshal([]byte(responseText), &req); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response from Gemini: %w, response: %s", err, responseText)
	}

	if req.Confidence < 0 {
		req.Confidence = 0
	}
	if req.Confidence > 1 {
		req.Confidence = 1
	}

	return &req, nil
}

// AssessCandidate judges one candidate against the full job context using Gemini
func (gp *GeminiProvider) AssessCandidate(ctx context.Context, job *models.JobSpec, req *models.Requirements, candidate *models.Candidate) (*models.Assessment, error) {
	responseText, err := gp.complete(ctx, buildAssessmentPrompt(job, req, candidate))
	if err != nil {
		return nil, err
	}

	var assessment models.Assessment
	if err := json.Unmarshal([]byte(responseText), &assessment); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response from Gemini: %w, response: %s", err, responseText)
	}

	if assessment.FitDelta < 0 {
		assessment.FitDelta = 0
	}
	if assessment.FitDelta > 10 {
		assessment.FitDelta = 10
	}

	return &assessment, nil
}

// IsHealthy checks if the Gemini provider is healthy and available
func (gp *GeminiProvider) IsHealthy(ctx context.Context) error {
	if gp.config.LLM.APIKey == "" {
		return fmt.Errorf("Gemini API key not configured - set LLM_API_KEY or GEMINI_API_KEY environment variable")
	}

	_, err := gp.client.Models.GenerateContent(ctx, gp.model, genai.Text("Hello"), nil)
	if err != nil {
		return fmt.Errorf("Gemini API health check failed: %w", err)
	}

	return nil
}

// GetProviderName returns the name of the LLM provider
func (gp *GeminiProvider) GetProviderName() string {
	return "gemini"
}
