package requirements

import (
	"context"
	"errors"
	"testing"
	"time"

	"crewmatch/internal/config"
	"crewmatch/pkg/models"
)

type stubProvider struct {
	req *models.Requirements
	err error
}

func (s *stubProvider) ExtractRequirements(ctx context.Context, job *models.JobSpec) (*models.Requirements, error) {
	return s.req, s.err
}

func extractorConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LLM.Timeout = time.Second
	return cfg
}

func TestExtract_Success(t *testing.T) {
	want := &models.Requirements{PositionCode: "officer", Confidence: 0.9}
	e := NewExtractor(&stubProvider{req: want}, extractorConfig())

	got := e.Extract(context.Background(), testJob())
	if got == nil || got.PositionCode != "officer" {
		t.Errorf("Extract = %+v, want extracted requirements", got)
	}
}

func TestExtract_ProviderFailureDegrades(t *testing.T) {
	e := NewExtractor(&stubProvider{err: errors.New("timeout")}, extractorConfig())

	if got := e.Extract(context.Background(), testJob()); got != nil {
		t.Errorf("Extract = %+v, want nil on provider failure", got)
	}
}

func TestExtract_NoProvider(t *testing.T) {
	e := NewExtractor(nil, extractorConfig())

	if got := e.Extract(context.Background(), testJob()); got != nil {
		t.Errorf("Extract = %+v, want nil without a provider", got)
	}
}

func TestExtract_EmptyBrief(t *testing.T) {
	e := NewExtractor(&stubProvider{req: &models.Requirements{}}, extractorConfig())
	job := testJob()
	job.Brief = ""

	if got := e.Extract(context.Background(), job); got != nil {
		t.Errorf("Extract = %+v, want nil for empty brief", got)
	}
}
