package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crewmatch/internal/api/routes"
	"crewmatch/internal/background"
	"crewmatch/internal/config"
	"crewmatch/internal/judge"
	"crewmatch/internal/llm"
	"crewmatch/internal/logging"
	"crewmatch/internal/pipeline"
	"crewmatch/internal/rerank"
	"crewmatch/internal/requirements"
	"crewmatch/internal/scoring"
	"crewmatch/internal/store"
	"crewmatch/internal/vector"
	"crewmatch/internal/workers"
	"crewmatch/pkg/utils"

	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logging
	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	logger := logging.GetGlobalLogger()
	logger.Info("Starting crewmatch matching service")

	ctx := context.Background()

	// Initialize the candidate store. Without DATABASE_URL the service runs
	// on the in-memory store, which is only useful for local development.
	var st store.Store
	if cfg.Store.DatabaseURL != "" {
		pgStore, err := store.NewPostgresStore(ctx, cfg)
		if err != nil {
			logger.Fatal("Failed to connect to candidate store", map[string]interface{}{
				"error": err.Error(),
			})
		}
		st = pgStore
		logger.Info("Connected to Postgres candidate store")
	} else {
		st = store.NewMemoryStore()
		logger.Warn("DATABASE_URL not set - using in-memory candidate store")
	}
	defer st.Close()

	// Initialize LLM manager. The pipeline degrades without it, so a failed
	// health check is not fatal.
	llmManager := llm.NewManager(cfg)
	if err := llmManager.Start(); err != nil {
		logger.Warn("LLM manager unavailable - extraction and AI assessment will degrade", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize the embedder for semantic ranking, also optional.
	var embedder vector.Embedder
	if cfg.Embeddings.APIKey != "" {
		geminiEmbedder, err := vector.NewGeminiEmbedder(ctx, cfg)
		if err != nil {
			logger.Warn("Embedding client unavailable - semantic ranking will degrade", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			embedder = geminiEmbedder
		}
	} else {
		logger.Warn("Embeddings API key not set - semantic ranking will degrade")
	}

	// Initialize the reranker client, optional as well.
	var reranker rerank.Reranker
	if cfg.Rerank.BaseURL != "" {
		reranker = rerank.NewClient(cfg)
	} else {
		logger.Warn("Rerank base URL not set - reranking will degrade")
	}

	// Wire the matching engine.
	engine := pipeline.NewEngine(
		st,
		requirements.NewExtractor(llmManager, cfg),
		vector.NewRanker(embedder),
		scoring.NewScorer(cfg),
		rerank.NewStage(reranker, cfg),
		judge.NewJudge(llmManager, cfg),
		cfg,
	)

	// Initialize Redis shortlist cache (optional)
	var redisClient *utils.RedisClient
	if cfg.Redis.URL != "" {
		client := utils.NewRedisClient(cfg)
		if err := client.Ping(ctx); err != nil {
			logger.Warn("Redis unavailable - shortlists will not be cached", map[string]interface{}{
				"error": err.Error(),
			})
			client.Close()
		} else {
			redisClient = client
			defer redisClient.Close()
		}
	}

	// Initialize background task manager
	taskManager := background.NewTaskManager(cfg)
	if err := taskManager.Start(ctx); err != nil {
		logger.Fatal("Failed to start task manager", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize worker pool
	poolManager := workers.NewPoolManager(cfg, engine)
	if err := poolManager.Initialize(); err != nil {
		logger.Fatal("Failed to start worker pool", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer poolManager.Shutdown()

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true

	// Setup routes
	routes.SetupRoutes(e, cfg, st, engine, poolManager, llmManager, taskManager, redisClient)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// Stop task manager first so in-flight background runs finish
		logger.Info("Stopping background task manager...")
		if err := taskManager.Stop(shutdownCtx); err != nil {
			logger.Error("Error stopping task manager", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Stopping worker pool...")
		if err := poolManager.Shutdown(); err != nil {
			logger.Error("Error stopping worker pool", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Stopping LLM manager...")
		if err := llmManager.Stop(); err != nil {
			logger.Error("Error stopping LLM manager", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{
				"error": err.Error(),
			})
		}

		logger.Info("Server shutdown complete")
	}()

	// Start server
	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{
		"address": address,
	})

	if err := e.Start(address); err != nil {
		logger.Fatal("Server failed to start", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
