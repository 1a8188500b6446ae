package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"crewmatch/internal/config"
	"crewmatch/internal/logging"
)

// RedisClient wraps the Redis client with shortlist caching. Only sanitized
// projections are ever written here; internal MatchResults never are.
type RedisClient struct {
	client *redis.Client
	config *config.Config
	logger logging.Logger
}

// CachedShortlist is the cached payload for one (job, viewer, limit) key.
type CachedShortlist struct {
	JobID          string      `json:"job_id"`
	Viewer         string      `json:"viewer"`
	Results        interface{} `json:"results"`
	Total          int         `json:"total"`
	DegradedStages []string    `json:"degraded_stages,omitempty"`
	CachedAt       time.Time   `json:"cached_at"`
}

// NewRedisClient creates a new Redis client instance
func NewRedisClient(cfg *config.Config) *RedisClient {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		// Fallback to default configuration
		opts = &redis.Options{
			Addr:     "localhost:6379",
			Password: "",
			DB:       0,
		}
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	return &RedisClient{
		client: client,
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// Ping tests the Redis connection
func (r *RedisClient) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	return r.client.Close()
}

// CacheShortlist stores a sanitized shortlist with the configured TTL.
func (r *RedisClient) CacheShortlist(ctx context.Context, entry *CachedShortlist, limit int) error {
	entry.CachedAt = time.Now()

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal shortlist: %w", err)
	}

	key := r.shortlistKey(entry.JobID, entry.Viewer, limit)
	ttl := r.config.Redis.ShortlistTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache shortlist: %w", err)
	}

	r.logger.Debug("Shortlist cached", map[string]interface{}{
		"job_id": entry.JobID,
		"viewer": entry.Viewer,
		"ttl":    ttl.String(),
	})
	return nil
}

// GetCachedShortlist fetches a cached shortlist, returning nil without error
// on a cache miss.
func (r *RedisClient) GetCachedShortlist(ctx context.Context, jobID, viewer string, limit int) (*CachedShortlist, error) {
	key := r.shortlistKey(jobID, viewer, limit)

	payload, err := r.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached shortlist: %w", err)
	}

	var entry CachedShortlist
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached shortlist: %w", err)
	}
	return &entry, nil
}

// InvalidateShortlists drops all cached views for a job.
func (r *RedisClient) InvalidateShortlists(ctx context.Context, jobID string) error {
	pattern := fmt.Sprintf("shortlist:%s:*", jobID)
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cached shortlist: %w", err)
		}
	}
	return iter.Err()
}

func (r *RedisClient) shortlistKey(jobID, viewer string, limit int) string {
	return fmt.Sprintf("shortlist:%s:%s:%d", jobID, viewer, limit)
}
