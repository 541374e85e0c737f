package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/markdave123-py/Conversa/internal/config"
	"github.com/markdave123-py/Conversa/internal/core/chunker"
	db "github.com/markdave123-py/Conversa/internal/core/database"
	"github.com/markdave123-py/Conversa/internal/core/extract"
	"github.com/markdave123-py/Conversa/internal/core/ingest"
	"github.com/markdave123-py/Conversa/internal/core/llm"
	"github.com/markdave123-py/Conversa/internal/core/objectclient"
	"github.com/markdave123-py/Conversa/internal/core/orchestrator"
	"github.com/markdave123-py/Conversa/internal/core/retrieval"
	"github.com/markdave123-py/Conversa/internal/core/vectorindex"
)

// App owns every long-lived dependency and wires them together. All
// construction happens here so the rest of the code takes collaborators
// as arguments instead of reaching for globals.
type App struct {
	DBClient *db.DatabaseClient
	Embedder *llm.GeminiEmbedder
	LLM      *llm.GeminiLLM
	Server   *Server
	Log      *zap.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg.DatabaseURL, cfg.EmbedDim)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	log.Info("database initialized and bootstrapped")

	objClient, err := objectclient.NewS3Client(appCtx, cfg.AwsAccessKey, cfg.AwsSecretKey, cfg.AwsRegion, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("init object client: %w", err)
	}
	log.Info("object client initialized", zap.String("bucket", cfg.BucketName))

	embedder, err := llm.NewGeminiEmbedder(appCtx, cfg.AIAPIKey, cfg.EmbedModel, cfg.EmbedDim, cfg.EmbedTimeout)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}

	generator, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel, cfg.LLMTimeout)
	if err != nil {
		return nil, fmt.Errorf("init language model: %w", err)
	}

	index := vectorindex.NewPostgres(dbClient.DB(), cfg.EmbedDim)

	splitter := chunker.New(chunker.Config{
		ChunkSize: cfg.ChunkSize,
		Overlap:   cfg.ChunkOverlap,
	})

	pipeline := ingest.NewPipeline(dbClient, extract.NewDocconv(), splitter, embedder, index, cfg.BatchSize, log)

	retriever := retrieval.NewService(embedder, index, cfg.MMRLambda)
	orch := orchestrator.New(dbClient, retriever, generator, cfg.RetrievalK, log)

	server := NewServer(cfg, dbClient, objClient, pipeline, index, orch, log)

	return &App{
		DBClient: dbClient,
		Embedder: embedder,
		LLM:      generator,
		Server:   server,
		Log:      log,
	}, nil
}

func (a *App) Close() {
	if a.Embedder != nil {
		_ = a.Embedder.Close()
	}
	if a.LLM != nil {
		_ = a.LLM.Close()
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
