// Package retrieval embeds a query and searches the vector index restricted
// to one conversation, returning formatted context passages.
package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/markdave123-py/Conversa/internal/core"
	"github.com/markdave123-py/Conversa/internal/core/vectorindex"
)

// Passage is one retrieved chunk with its originating source name.
type Passage struct {
	Text   string  `json:"text"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

// Service ties the embedder and the vector index together for the read path.
type Service struct {
	embedder core.EmbeddingProvider
	index    vectorindex.Index
	lambda   float64
}

func NewService(embedder core.EmbeddingProvider, index vectorindex.Index, lambda float64) *Service {
	return &Service{embedder: embedder, index: index, lambda: lambda}
}

// Retrieve returns up to k passages for the query from the conversation's
// own documents. A conversation with nothing ingested yields an empty
// result and no error; downstream prompt assembly treats that as "no
// reference material".
func (s *Service) Retrieve(ctx context.Context, query, conversationID string, k int) ([]Passage, error) {
	if strings.TrimSpace(conversationID) == "" {
		return nil, fmt.Errorf("%w: conversation id is required", core.ErrValidation)
	}
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query text is required", core.ErrValidation)
	}

	vecs, err := s.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%w: got %d query embeddings", core.ErrEmbedding, len(vecs))
	}

	hits, err := s.index.Search(ctx, vecs[0], k, vectorindex.Filter{ConversationID: conversationID}, s.lambda)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrRetrieval, err)
	}

	passages := make([]Passage, 0, len(hits))
	for _, h := range hits {
		passages = append(passages, Passage{Text: h.Text, Source: h.Meta.Source, Score: h.Score})
	}
	return passages, nil
}

// FormatContext renders passages as the context block of an augmented
// prompt, one block per passage with its source name.
func FormatContext(passages []Passage) string {
	var b strings.Builder
	for i, p := range passages {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		fmt.Fprintf(&b, "[%s]\n%s", p.Source, p.Text)
	}
	return b.String()
}
