package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration. Everything the core consumes
// (chunking sizes, retrieval k, MMR lambda, model endpoints) is supplied
// here; nothing is hardcoded in the core packages.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// Object storage for raw uploads.
	AwsAccessKey string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey string `env:"AWS_SECRET_KEY"`
	AwsRegion    string `env:"AWS_REGION" envDefault:"us-east-2"`
	BucketName   string `env:"BUCKET_NAME" envDefault:"conversa-docs"`

	// Gemini models.
	AIAPIKey   string `env:"GEMINI_API_KEY,notEmpty"`
	EmbedModel string `env:"EMBED_MODEL" envDefault:"text-embedding-004"`
	EmbedDim   int    `env:"EMBED_DIM" envDefault:"768"`
	GenModel   string `env:"GEN_MODEL" envDefault:"gemini-1.5-flash"`

	// Ingestion tuning.
	ChunkSize    int `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap int `env:"CHUNK_OVERLAP" envDefault:"200"`
	BatchSize    int `env:"BATCH_SIZE" envDefault:"16"`

	// Retrieval tuning.
	RetrievalK int     `env:"RETRIEVAL_K" envDefault:"5"`
	MMRLambda  float64 `env:"MMR_LAMBDA" envDefault:"0.5"`

	// Bounded timeouts around the network-bound external calls.
	EmbedTimeout time.Duration `env:"EMBED_TIMEOUT" envDefault:"30s"`
	LLMTimeout   time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
}

// Load reads .env (if present), parses the environment and validates the
// result. Missing .env is fine; in containerized environments variables are
// set externally.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	var problems []string

	if cfg.ChunkSize <= 0 {
		problems = append(problems, fmt.Sprintf("CHUNK_SIZE must be positive, got %d", cfg.ChunkSize))
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		problems = append(problems, fmt.Sprintf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", cfg.ChunkOverlap))
	}
	if cfg.BatchSize <= 0 {
		problems = append(problems, fmt.Sprintf("BATCH_SIZE must be positive, got %d", cfg.BatchSize))
	}
	if cfg.EmbedDim <= 0 {
		problems = append(problems, fmt.Sprintf("EMBED_DIM must be positive, got %d", cfg.EmbedDim))
	}
	if cfg.RetrievalK <= 0 {
		problems = append(problems, fmt.Sprintf("RETRIEVAL_K must be positive, got %d", cfg.RetrievalK))
	}
	if cfg.MMRLambda < 0 || cfg.MMRLambda > 1 {
		problems = append(problems, fmt.Sprintf("MMR_LAMBDA must be in [0, 1], got %g", cfg.MMRLambda))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}
