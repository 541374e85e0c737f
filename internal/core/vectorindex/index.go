// Package vectorindex stores chunk embeddings and serves tenant-filtered
// nearest-neighbour search with Maximal Marginal Relevance re-ranking.
//
// Two backends exist: Postgres/pgvector for production and an in-memory
// brute-force index for tests and local runs. Both apply the same MMR
// selection, so ranking behaviour is identical between them.
package vectorindex

import (
	"context"
	"fmt"

	"github.com/markdave123-py/Conversa/internal/core"
)

// Metadata is carried with every entry. ConversationID is the tenant
// isolation key; any schema change must keep it exact-match filterable.
type Metadata struct {
	DocumentID     string
	ConversationID string
	Ordinal        int
	Source         string
}

// Entry is one indexed chunk.
type Entry struct {
	ID     string
	Vector []float32
	Text   string
	Meta   Metadata
}

// Filter restricts a search to a single conversation.
type Filter struct {
	ConversationID string
}

// Validate rejects filters that would cross tenant boundaries.
func (f Filter) Validate() error {
	if f.ConversationID == "" {
		return fmt.Errorf("%w: filter conversation id is empty", core.ErrIndex)
	}
	return nil
}

// Hit is one ranked search result.
type Hit struct {
	ID    string
	Text  string
	Meta  Metadata
	Score float64
}

// Index is the vector store contract.
type Index interface {
	// Insert adds one entry. Fails with core.ErrIndex on dimension mismatch.
	Insert(ctx context.Context, e Entry) error

	// Delete removes one entry by id. Deleting an absent id is a no-op.
	Delete(ctx context.Context, id string) error

	// DeleteByDocument removes every entry belonging to a document.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Search returns up to k hits for the query vector, restricted to the
	// filter's conversation and re-ranked by MMR with the given lambda.
	// An empty index or empty filtered subset yields an empty result, not
	// an error.
	Search(ctx context.Context, query []float32, k int, f Filter, lambda float64) ([]Hit, error)
}

// fetchSize is the candidate superset retrieved before MMR re-ranking.
func fetchSize(k int) int {
	n := 4 * k
	if n < 20 {
		n = 20
	}
	return n
}
