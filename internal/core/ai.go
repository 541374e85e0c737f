package core

import "context"

// EmbeddingProvider maps text to fixed-dimension vectors. Implementations
// may call a remote inference endpoint or run a local model; callers depend
// only on this interface.
type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension reports the fixed output vector length.
	Dimension() int
}

// LLMProvider generates a completion for an assembled prompt.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
}
