// loglens ingests CI/CD run logs, cleans/chunks/classifies them, and
// produces an LLM-backed root-cause analysis, exposed over a small
// HTTP surface and a NATS JetStream worker pool.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/ci-loglens/loglens/pkg/analyze"
	"github.com/ci-loglens/loglens/pkg/api"
	"github.com/ci-loglens/loglens/pkg/archive"
	"github.com/ci-loglens/loglens/pkg/cleanup"
	"github.com/ci-loglens/loglens/pkg/config"
	"github.com/ci-loglens/loglens/pkg/database"
	"github.com/ci-loglens/loglens/pkg/embed"
	"github.com/ci-loglens/loglens/pkg/executor"
	"github.com/ci-loglens/loglens/pkg/llm"
	"github.com/ci-loglens/loglens/pkg/pipeline"
	"github.com/ci-loglens/loglens/pkg/queue"
	"github.com/ci-loglens/loglens/pkg/store"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("Warning: could not load %s: %v", envPath, err)
		log.Printf("Continuing with existing environment variables...")
	} else {
		log.Printf("Loaded environment from %s", envPath)
	}

	log.Printf("Starting loglens")
	log.Printf("Config directory: %s", *configDir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dbConfig, err := database.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("Failed to load database config: %v", err)
	}

	dbClient, err := database.NewClient(ctx, dbConfig)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			log.Printf("Error closing database client: %v", err)
		}
	}()
	log.Println("Connected to PostgreSQL, migrations applied")

	dataStore := store.New(dbClient.Pool)

	provider := llm.NewHTTPProvider(getEnv("LLM_BASE_URL", "http://localhost:9000"), os.Getenv("LLM_API_KEY"), slog.Default())
	resolver := archive.NewGitHubResolver(cfg.Archive.APIBaseURL, cfg.Archive.Token)
	fetcher := archive.New()

	embedder := embed.New(provider, dataStore, embed.Config{
		ExpectedDim:    cfg.Pipeline.EmbeddingDim,
		MaxChars:       cfg.Pipeline.EmbeddingMaxChars,
		InterCallDelay: time.Duration(cfg.Pipeline.EmbeddingInterCall) * time.Millisecond,
	}, slog.Default())
	analyzer := analyze.New(provider, dataStore, dataStore, cfg.Pipeline.RAGMaxCases, cfg.Pipeline.RAGMinSimilarity, slog.Default())
	pipelineOpts := pipeline.Options{
		MaxChunkLines: cfg.Pipeline.MaxChunkLines,
		TokensPerChar: cfg.Pipeline.TokensPerChar,
	}
	exec := executor.New(resolver, fetcher, dataStore, embedder, analyzer, pipelineOpts, slog.Default())

	nc, err := nats.Connect(cfg.Queue.NATSURL)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer nc.Close()

	pool, err := queue.NewWorkerPool(nc, exec, dataStore, cfg.Queue)
	if err != nil {
		log.Fatalf("Failed to build worker pool: %v", err)
	}
	if err := pool.Start(ctx); err != nil {
		log.Fatalf("Failed to start worker pool: %v", err)
	}
	defer pool.Stop()
	log.Printf("Worker pool started: %d workers", cfg.Queue.WorkerCount)

	cleanupSvc := cleanup.NewService(cfg.Retention, dataStore, slog.Default())
	cleanupSvc.Start(ctx)
	defer cleanupSvc.Stop()

	server := api.NewServer(dbClient, cfg, dataStore, dataStore, pool, analyzer, provider, dataStore)

	httpSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: server.Router(),
	}

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
}
