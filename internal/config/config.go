package config

import (
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port         int           `yaml:"port" default:"8080"`
		Host         string        `yaml:"host" default:"0.0.0.0"`
		ReadTimeout  time.Duration `yaml:"read_timeout" default:"30s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"30s"`
		IdleTimeout  time.Duration `yaml:"idle_timeout" default:"60s"`
	} `yaml:"server"`

	Workers struct {
		PoolSize  int           `yaml:"pool_size" default:"8"`
		QueueSize int           `yaml:"queue_size" default:"64"`
		RateLimit int           `yaml:"rate_limit" default:"60"` // requests per minute per caller
		Timeout   time.Duration `yaml:"timeout" default:"120s"`
	} `yaml:"workers"`

	BackgroundTasks struct {
		MaxConcurrentTasks int           `yaml:"max_concurrent_tasks" default:"20"`
		TaskTimeout        time.Duration `yaml:"task_timeout" default:"300s"`
		CleanupInterval    time.Duration `yaml:"cleanup_interval" default:"1h"`
		MaxTaskAge         time.Duration `yaml:"max_task_age" default:"24h"`
	} `yaml:"background_tasks"`

	LLM struct {
		Provider    string        `yaml:"provider" default:"claude"` // claude or gemini
		APIKey      string        `yaml:"api_key"`
		Model       string        `yaml:"model"`
		MaxTokens   int           `yaml:"max_tokens" default:"4096"`
		Temperature float32       `yaml:"temperature" default:"0.1"`
		Timeout     time.Duration `yaml:"timeout" default:"60s"`
	} `yaml:"llm"`

	Embeddings struct {
		APIKey  string        `yaml:"api_key"`
		Model   string        `yaml:"model" default:"gemini-embedding-001"`
		Timeout time.Duration `yaml:"timeout" default:"30s"`
	} `yaml:"embeddings"`

	Rerank struct {
		BaseURL    string        `yaml:"base_url"`
		APIKey     string        `yaml:"api_key"`
		Model      string        `yaml:"model" default:"jina-reranker-v2-base-multilingual"`
		Timeout    time.Duration `yaml:"timeout" default:"30s"`
		MaxRetries int           `yaml:"max_retries" default:"2"`
	} `yaml:"rerank"`

	Store struct {
		DatabaseURL     string        `yaml:"database_url"`
		MaxConns        int           `yaml:"max_conns" default:"10"`
		ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" default:"1h"`
		QueryTimeout    time.Duration `yaml:"query_timeout" default:"10s"`
	} `yaml:"store"`

	Matching struct {
		RetrievalCap      int           `yaml:"retrieval_cap" default:"1000"`
		RerankInputSize   int           `yaml:"rerank_input_size" default:"50"`
		RerankOutputSize  int           `yaml:"rerank_output_size" default:"20"`
		JudgeSliceSize    int           `yaml:"judge_slice_size" default:"15"`
		JudgeBatchSize    int           `yaml:"judge_batch_size" default:"5"`
		DefaultLimit      int           `yaml:"default_limit" default:"10"`
		AvailabilityGrace time.Duration `yaml:"availability_grace" default:"336h"` // 14 days
	} `yaml:"matching"`

	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"json"`
		Output string `yaml:"output" default:"stdout"`

		Adapters []struct {
			Name    string                 `yaml:"name"`
			Type    string                 `yaml:"type"`
			Enabled bool                   `yaml:"enabled"`
			Options map[string]interface{} `yaml:"options"`
		} `yaml:"adapters"`
	} `yaml:"logging"`

	Redis struct {
		URL          string        `yaml:"url" default:"redis://localhost:6379"`
		Password     string        `yaml:"password"`
		DB           int           `yaml:"db" default:"0"`
		Timeout      time.Duration `yaml:"timeout" default:"5s"`
		ShortlistTTL time.Duration `yaml:"shortlist_ttl" default:"5m"`
	} `yaml:"redis"`
}

// expandEnvVars expands environment variables in a string using ${VAR} or $VAR syntax
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match
	})

	return s
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (ignore errors if file doesn't exist)
	_ = godotenv.Load()

	config := &Config{}

	// Set defaults
	config.Server.Port = 8080
	config.Server.Host = "0.0.0.0"
	config.Server.ReadTimeout = 30 * time.Second
	config.Server.WriteTimeout = 30 * time.Second
	config.Server.IdleTimeout = 60 * time.Second

	config.Workers.PoolSize = 8
	config.Workers.QueueSize = 64
	config.Workers.RateLimit = 60
	config.Workers.Timeout = 120 * time.Second

	config.BackgroundTasks.MaxConcurrentTasks = 20
	config.BackgroundTasks.TaskTimeout = 300 * time.Second
	config.BackgroundTasks.CleanupInterval = 1 * time.Hour
	config.BackgroundTasks.MaxTaskAge = 24 * time.Hour

	config.LLM.Provider = "claude"
	config.LLM.MaxTokens = 4096
	config.LLM.Temperature = 0.1
	config.LLM.Timeout = 60 * time.Second

	config.Embeddings.Model = "gemini-embedding-001"
	config.Embeddings.Timeout = 30 * time.Second

	config.Rerank.Model = "jina-reranker-v2-base-multilingual"
	config.Rerank.Timeout = 30 * time.Second
	config.Rerank.MaxRetries = 2

	config.Store.MaxConns = 10
	config.Store.ConnMaxLifetime = 1 * time.Hour
	config.Store.QueryTimeout = 10 * time.Second

	config.Matching.RetrievalCap = 1000
	config.Matching.RerankInputSize = 50
	config.Matching.RerankOutputSize = 20
	config.Matching.JudgeSliceSize = 15
	config.Matching.JudgeBatchSize = 5
	config.Matching.DefaultLimit = 10
	config.Matching.AvailabilityGrace = 14 * 24 * time.Hour

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.Output = "stdout"

	config.Redis.URL = "redis://localhost:6379"
	config.Redis.DB = 0
	config.Redis.Timeout = 5 * time.Second
	config.Redis.ShortlistTTL = 5 * time.Minute

	// Load from YAML file if it exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			yamlContent := expandEnvVars(string(data))

			if err := yaml.Unmarshal([]byte(yamlContent), config); err != nil {
				return nil, err
			}
		}
	}

	// Override with environment variables
	config.loadFromEnv()

	return config, nil
}

// loadFromEnv loads configuration from environment variables
func (c *Config) loadFromEnv() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		c.Server.Host = host
	}

	if apiKey := os.Getenv("LLM_API_KEY"); apiKey != "" {
		c.LLM.APIKey = apiKey
	}

	if provider := os.Getenv("LLM_PROVIDER"); provider != "" {
		c.LLM.Provider = provider
	}

	if model := os.Getenv("LLM_MODEL"); model != "" {
		c.LLM.Model = model
	}

	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		if c.Embeddings.APIKey == "" {
			c.Embeddings.APIKey = apiKey
		}
		if c.LLM.Provider == "gemini" && c.LLM.APIKey == "" {
			c.LLM.APIKey = apiKey
		}
	}

	if apiKey := os.Getenv("RERANK_API_KEY"); apiKey != "" {
		c.Rerank.APIKey = apiKey
	}

	if baseURL := os.Getenv("RERANK_BASE_URL"); baseURL != "" {
		c.Rerank.BaseURL = baseURL
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		c.Store.DatabaseURL = dbURL
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	if logFormat := os.Getenv("LOG_FORMAT"); logFormat != "" {
		c.Logging.Format = logFormat
	}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.URL = redisURL
	}

	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		c.Redis.Password = redisPassword
	}

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		if db, err := strconv.Atoi(redisDB); err == nil {
			c.Redis.DB = db
		}
	}

	if retrievalCap := os.Getenv("MATCHING_RETRIEVAL_CAP"); retrievalCap != "" {
		if n, err := strconv.Atoi(retrievalCap); err == nil {
			c.Matching.RetrievalCap = n
		}
	}

	if judgeSlice := os.Getenv("MATCHING_JUDGE_SLICE"); judgeSlice != "" {
		if n, err := strconv.Atoi(judgeSlice); err == nil {
			c.Matching.JudgeSliceSize = n
		}
	}
}
