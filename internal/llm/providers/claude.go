package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"crewmatch/internal/config"
	"crewmatch/internal/logging"
	"crewmatch/pkg/models"
)

// ClaudeProvider implements the LLM provider interface using Anthropic's Claude
type ClaudeProvider struct {
	client anthropic.Client
	config *config.Config
	logger logging.Logger
}

// NewClaudeProvider creates a new Claude provider instance
func NewClaudeProvider(cfg *config.Config) *ClaudeProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(cfg.LLM.APIKey),
	)

	return &ClaudeProvider{
		client: client,
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

func (cp *ClaudeProvider) model() anthropic.Model {
	if cp.config.LLM.Model != "" {
		return anthropic.Model(cp.config.LLM.Model)
	}
	return anthropic.ModelClaude3_7SonnetLatest
}

// complete sends a single-turn prompt to Claude and returns the raw response
// text with any markdown fencing removed.
func (cp *ClaudeProvider) complete(ctx context.Context, prompt string) (string, error) {
	response, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       cp.model(),
		MaxTokens:   int64(cp.config.LLM.MaxTokens),
		Temperature: anthropic.Float(float64(cp.config.LLM.Temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Claude API: %w", err)
	}

	if len(response.Content) == 0 {
		return "", fmt.Errorf("empty response from Claude")
	}

	var responseText string
	for _, content := range response.Content {
		textContent := content.AsText()
		responseText = textContent.Text
		break
	}
	if responseText == "" {
		return "", fmt.Errorf("no text content in Claude response")
	}

	return stripMarkdownFences(responseText), nil
}

// ExtractRequirements parses the job brief into structured requirements using Claude
func (cp *ClaudeProvider) ExtractRequirements(ctx context.Context, job *models.JobSpec) (*models.Requirements, error) {
	startTime := time.Now()

	cp.logger.Info("Starting requirement extraction with Claude", map[string]interface{}{
		"job_id":       job.ID,
		"brief_length": len(job.Brief),
		"provider":     "claude",
	})

	responseText, err := cp.complete(ctx, buildExtractionPrompt(job))
	if err != nil {
		return nil, err
	}

	var req models.Requirements
	if err := json.Unmarshal([]byte(responseText), &req); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response from Claude: %w, response: %s", err, responseText)
	}

	if req.Confidence < 0 {
		req.Confidence = 0
	}
	if req.Confidence > 1 {
		req.Confidence = 1
	}

	cp.logger.Info("Requirement extraction completed successfully", map[string]interface{}{
		"job_id":          job.ID,
		"position_code":   req.PositionCode,
		"confidence":      req.Confidence,
		"processing_time": time.Since(startTime),
		"provider":        "claude",
	})

	return &req, nil
}

// AssessCandidate judges one candidate against the full job context using Claude
func (cp *ClaudeProvider) AssessCandidate(ctx context.Context, job *models.JobSpec, req *models.Requirements, candidate *models.Candidate) (*models.Assessment, error) {
	responseText, err := cp.complete(ctx, buildAssessmentPrompt(job, req, candidate))
	if err != nil {
		return nil, err
	}

	var assessment models.Assessment
	if err := json.Unmarshal([]byte(responseText), &assessment); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response from Claude: %w, response: %s", err, responseText)
	}

	if assessment.FitDelta < 0 {
		assessment.FitDelta = 0
	}
	if assessment.FitDelta > 10 {
		assessment.FitDelta = 10
	}

	cp.logger.Debug("Candidate assessment completed", map[string]interface{}{
		"job_id":       job.ID,
		"candidate_id": candidate.ID,
		"fit_delta":    assessment.FitDelta,
		"provider":     "claude",
	})

	return &assessment, nil
}

// IsHealthy checks if the Claude provider is healthy and available
func (cp *ClaudeProvider) IsHealthy(ctx context.Context) error {
	if cp.config.LLM.APIKey == "" {
		return fmt.Errorf("Claude API key not configured - set LLM_API_KEY environment variable")
	}

	_, err := cp.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     cp.model(),
		MaxTokens: 500,
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: "Hello"},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})

	if err != nil {
		return fmt.Errorf("Claude API health check failed: %w", err)
	}

	return nil
}

// GetProviderName returns the name of the LLM provider
func (cp *ClaudeProvider) GetProviderName() string {
	return "claude"
}
