package vectorindex

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/pgvector/pgvector-go"

	"github.com/markdave123-py/Conversa/internal/core"
)

// Postgres persists entries in the document_chunks table with a pgvector
// embedding column. Candidate retrieval runs in SQL ordered by cosine
// distance; MMR re-ranking happens in Go, identically to the in-memory
// backend.
type Postgres struct {
	db  *sql.DB
	dim int
}

var _ Index = (*Postgres)(nil)

// NewPostgres wraps an open pool. dim must match the vector column width.
func NewPostgres(db *sql.DB, dim int) *Postgres {
	return &Postgres{db: db, dim: dim}
}

func (p *Postgres) Insert(ctx context.Context, e Entry) error {
	if len(e.Vector) != p.dim {
		return fmt.Errorf("%w: vector dimension %d, index dimension %d", core.ErrIndex, len(e.Vector), p.dim)
	}
	if e.ID == "" {
		return fmt.Errorf("%w: entry id is empty", core.ErrIndex)
	}

	const q = `
		INSERT INTO document_chunks
			(id, document_id, conversation_id, ordinal, text, source, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	`
	_, err := p.db.ExecContext(ctx, q,
		e.ID, e.Meta.DocumentID, e.Meta.ConversationID, e.Meta.Ordinal,
		e.Text, e.Meta.Source, pgvector.NewVector(e.Vector),
	)
	if err != nil {
		return fmt.Errorf("%w: insert chunk: %v", core.ErrIndex, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM document_chunks WHERE id = $1`, id); err != nil {
		return fmt.Errorf("%w: delete chunk: %v", core.ErrIndex, err)
	}
	return nil
}

func (p *Postgres) DeleteByDocument(ctx context.Context, documentID string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM document_chunks WHERE document_id = $1`, documentID); err != nil {
		return fmt.Errorf("%w: delete document chunks: %v", core.ErrIndex, err)
	}
	return nil
}

func (p *Postgres) Search(ctx context.Context, query []float32, k int, f Filter, lambda float64) ([]Hit, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	// The <=> operator is cosine distance; ordering by it gives the
	// nearest candidates and can use the ivfflat index. Exact similarities
	// are recomputed in Go so scores match the in-memory backend.
	const q = `
		SELECT id, text, document_id, conversation_id, ordinal, source, embedding
		FROM document_chunks
		WHERE conversation_id = $1
		ORDER BY embedding <=> $2
		LIMIT $3
	`
	rows, err := p.db.QueryContext(ctx, q, f.ConversationID, pgvector.NewVector(query), fetchSize(k))
	if err != nil {
		return nil, fmt.Errorf("%w: search chunks: %v", core.ErrRetrieval, err)
	}
	defer rows.Close()

	var cands []candidate
	for rows.Next() {
		var (
			h   Hit
			emb pgvector.Vector
		)
		if err := rows.Scan(&h.ID, &h.Text, &h.Meta.DocumentID, &h.Meta.ConversationID, &h.Meta.Ordinal, &h.Meta.Source, &emb); err != nil {
			return nil, fmt.Errorf("%w: scan chunk: %v", core.ErrRetrieval, err)
		}
		vec := emb.Slice()
		h.Score = CosineSimilarity(query, vec)
		cands = append(cands, candidate{hit: h, vec: vec})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: search chunks: %v", core.ErrRetrieval, err)
	}
	if len(cands) == 0 {
		return nil, nil
	}

	sort.Slice(cands, func(i, j int) bool {
		if cands[i].hit.Score != cands[j].hit.Score {
			return cands[i].hit.Score > cands[j].hit.Score
		}
		return cands[i].hit.ID < cands[j].hit.ID
	})

	return rerank(cands, k, lambda), nil
}
