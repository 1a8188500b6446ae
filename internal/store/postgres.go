package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"crewmatch/internal/config"
	"crewmatch/internal/logging"
	"crewmatch/pkg/models"
	"crewmatch/pkg/utils"
)

// PostgresStore implements Store on a Postgres database. Job and candidate
// records live as jsonb documents with the natively-filterable predicates
// broken out into indexed columns:
//
//	jobs(id text pk, status text, spec jsonb)
//	candidates(id text pk, category text, availability_status text,
//	           years_experience numeric, smoker bool, visible_tattoos bool,
//	           cert_codes text[], profile jsonb)
//
// cert_codes holds the candidate's unexpired certificate codes and is kept
// current by the profile-write path, so the @> predicate matches the
// in-memory HasValidCert check.
//
// The jsonb documents are the store's own encoding (jobDocument,
// candidateDocument), not the wire models: the wire tags redact
// confidential notes and embeddings, and those fields must survive a
// store round-trip.
type PostgresStore struct {
	pool   *pgxpool.Pool
	config *config.Config
	logger logging.Logger
}

// jobDocument is the jsonb persistence form of a JobSpec. ConfidentialNotes
// and Embedding carry json:"-" on the wire model, so the store keys them
// itself.
type jobDocument struct {
	models.JobSpec
	ConfidentialNotes string    `json:"confidential_notes,omitempty"`
	Embedding         []float32 `json:"embedding,omitempty"`
}

// candidateDocument is the jsonb persistence form of a Candidate.
type candidateDocument struct {
	models.Candidate
	Embedding []float32 `json:"embedding,omitempty"`
}

func encodeJob(job *models.JobSpec) ([]byte, error) {
	return json.Marshal(jobDocument{
		JobSpec:           *job,
		ConfidentialNotes: job.ConfidentialNotes,
		Embedding:         job.Embedding,
	})
}

func decodeJob(raw []byte) (*models.JobSpec, error) {
	var doc jobDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	job := doc.JobSpec
	job.ConfidentialNotes = doc.ConfidentialNotes
	job.Embedding = doc.Embedding
	return &job, nil
}

func encodeCandidate(candidate *models.Candidate) ([]byte, error) {
	return json.Marshal(candidateDocument{
		Candidate: *candidate,
		Embedding: candidate.Embedding,
	})
}

func decodeCandidate(raw []byte) (*models.Candidate, error) {
	var doc candidateDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	candidate := doc.Candidate
	candidate.Embedding = doc.Embedding
	return &candidate, nil
}

// NewPostgresStore creates a connection pool and verifies connectivity.
func NewPostgresStore(ctx context.Context, cfg *config.Config) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Store.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.Store.MaxConns)
	poolConfig.MaxConnLifetime = cfg.Store.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return &PostgresStore{
		pool:   pool,
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}, nil
}

// GetJob fetches one job by ID.
func (s *PostgresStore) GetJob(ctx context.Context, id string) (*models.JobSpec, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Store.QueryTimeout)
	defer cancel()

	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT spec FROM jobs WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}

	job, err := decodeJob(raw)
	if err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return job, nil
}

// GetCandidate fetches one candidate by ID.
func (s *PostgresStore) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Store.QueryTimeout)
	defer cancel()

	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT profile FROM candidates WHERE id = $1`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get candidate %s: %w", id, err)
	}

	candidate, err := decodeCandidate(raw)
	if err != nil {
		return nil, fmt.Errorf("decode candidate %s: %w", id, err)
	}
	return candidate, nil
}

// buildCandidateQuery assembles the retrieval SQL from the pushed-down
// predicates. Returns the query, its arguments and the predicate count.
func buildCandidateQuery(filter Filter) (string, []interface{}, int) {
	var (
		conditions []string
		args       []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Categories) > 0 {
		cond := fmt.Sprintf("category = ANY(%s)", arg(filter.Categories))
		// Uncategorized rows may hold NULL rather than ''; both must reach
		// the in-memory category inference.
		if utils.Contains(filter.Categories, "") {
			cond = "(" + cond + " OR category IS NULL)"
		}
		conditions = append(conditions, cond)
	}
	if len(filter.AvailabilityStatuses) > 0 {
		conditions = append(conditions, fmt.Sprintf("availability_status = ANY(%s)", arg(filter.AvailabilityStatuses)))
	}
	if filter.MinYears > 0 {
		conditions = append(conditions, fmt.Sprintf("years_experience >= %s", arg(filter.MinYears)))
	}
	if len(filter.CertCodes) > 0 {
		conditions = append(conditions, fmt.Sprintf("cert_codes @> %s", arg(filter.CertCodes)))
	}
	if filter.NonSmoker {
		conditions = append(conditions, "smoker = false")
	}
	if filter.NoVisibleTattoos {
		conditions = append(conditions, "visible_tattoos = false")
	}

	query := `SELECT profile FROM candidates`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY years_experience DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %s", arg(filter.Limit))
	}

	return query, args, len(conditions)
}

// QueryCandidates runs a single bounded query with every native predicate
// pushed down.
func (s *PostgresStore) QueryCandidates(ctx context.Context, filter Filter) ([]*models.Candidate, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Store.QueryTimeout)
	defer cancel()

	query, args, predicates := buildCandidateQuery(filter)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]*models.Candidate, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		candidate, err := decodeCandidate(raw)
		if err != nil {
			return nil, fmt.Errorf("decode candidate: %w", err)
		}
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}

	s.logger.Debug("Candidate retrieval query completed", map[string]interface{}{
		"predicates": predicates,
		"rows":       len(candidates),
		"limit":      filter.Limit,
	})

	return candidates, nil
}

// ListOpenJobs returns every job with OPEN status.
func (s *PostgresStore) ListOpenJobs(ctx context.Context) ([]*models.JobSpec, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Store.QueryTimeout)
	defer cancel()

	rows, err := s.pool.Query(ctx, `SELECT spec FROM jobs WHERE status = 'OPEN'`)
	if err != nil {
		return nil, fmt.Errorf("list open jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*models.JobSpec, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		job, err := decodeJob(raw)
		if err != nil {
			return nil, fmt.Errorf("decode job: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list open jobs: %w", err)
	}

	return jobs, nil
}

// Ping verifies database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}
