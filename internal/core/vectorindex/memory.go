package vectorindex

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/markdave123-py/Conversa/internal/core"
)

// Memory is a brute-force in-memory index guarded by an RWMutex. It is safe
// for concurrent use and is the backend of choice for tests and local runs
// without Postgres.
type Memory struct {
	mu      sync.RWMutex
	dim     int
	entries map[string]Entry
}

var _ Index = (*Memory)(nil)

// NewMemory builds an empty index for vectors of the given dimension.
func NewMemory(dim int) *Memory {
	return &Memory{dim: dim, entries: make(map[string]Entry)}
}

func (m *Memory) Insert(_ context.Context, e Entry) error {
	if len(e.Vector) != m.dim {
		return fmt.Errorf("%w: vector dimension %d, index dimension %d", core.ErrIndex, len(e.Vector), m.dim)
	}
	if e.ID == "" {
		return fmt.Errorf("%w: entry id is empty", core.ErrIndex)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ID] = e
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *Memory) DeleteByDocument(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.entries {
		if e.Meta.DocumentID == documentID {
			delete(m.entries, id)
		}
	}
	return nil
}

func (m *Memory) Search(_ context.Context, query []float32, k int, f Filter, lambda float64) ([]Hit, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	m.mu.RLock()
	var cands []candidate
	for _, e := range m.entries {
		if e.Meta.ConversationID != f.ConversationID {
			continue
		}
		cands = append(cands, candidate{
			hit: Hit{ID: e.ID, Text: e.Text, Meta: e.Meta, Score: CosineSimilarity(query, e.Vector)},
			vec: e.Vector,
		})
	}
	m.mu.RUnlock()

	if len(cands) == 0 {
		return nil, nil
	}

	// Rank by query similarity (ties by id for determinism), keep the
	// candidate superset, then re-rank with MMR.
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].hit.Score != cands[j].hit.Score {
			return cands[i].hit.Score > cands[j].hit.Score
		}
		return cands[i].hit.ID < cands[j].hit.ID
	})
	if n := fetchSize(k); len(cands) > n {
		cands = cands[:n]
	}

	return rerank(cands, k, lambda), nil
}

// Len reports the number of stored entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
