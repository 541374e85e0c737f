package ingest

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/Conversa/internal/core"
	"github.com/markdave123-py/Conversa/internal/core/chunker"
	"github.com/markdave123-py/Conversa/internal/core/extract"
	"github.com/markdave123-py/Conversa/internal/core/vectorindex"
	"github.com/markdave123-py/Conversa/internal/models"
)

const testDim = 8

// stubEmbedder maps each word onto a hashed dimension, giving deterministic
// vectors where shared words mean similar vectors.
type stubEmbedder struct {
	fail bool
}

func (s *stubEmbedder) Dimension() int { return testDim }

func (s *stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	if s.fail {
		return nil, fmt.Errorf("%w: service unreachable", core.ErrEmbedding)
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = hashEmbed(t)
	}
	return out, nil
}

func hashEmbed(text string) []float32 {
	vec := make([]float32, testDim)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(w))
		vec[h.Sum32()%testDim]++
	}
	return vec
}

type fakeStore struct {
	mu        sync.Mutex
	statuses  map[string][]string
	processed map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{statuses: make(map[string][]string), processed: make(map[string]bool)}
}

func (s *fakeStore) UpdateDocumentStatus(_ context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[id] = append(s.statuses[id], status)
	return nil
}

func (s *fakeStore) MarkDocumentProcessed(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed[id] = true
	s.statuses[id] = append(s.statuses[id], models.DocStatusReady)
	return nil
}

type failingExtractor struct{}

func (failingExtractor) Text([]byte, string) (string, error) {
	return "", fmt.Errorf("%w: unreadable file", core.ErrIngestion)
}

func newTestPipeline(store DocumentStore, emb core.EmbeddingProvider, idx vectorindex.Index) *Pipeline {
	split := chunker.New(chunker.Config{ChunkSize: 60, Overlap: 12})
	return NewPipeline(store, extract.NewDocconv(), split, emb, idx, 4, nil)
}

func testDoc(id string) *models.Document {
	return &models.Document{
		ID:             id,
		ConversationID: "conv-1",
		FileName:       id + ".txt",
		Status:         models.DocStatusUploaded,
	}
}

func TestPipeline_IngestSuccess(t *testing.T) {
	store := newFakeStore()
	idx := vectorindex.NewMemory(testDim)
	p := newTestPipeline(store, &stubEmbedder{}, idx)

	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 10)
	err := p.Ingest(context.Background(), testDoc("doc-1"), []byte(text), "text/plain")
	require.NoError(t, err)

	assert.True(t, store.processed["doc-1"])
	assert.Equal(t, []string{models.DocStatusProcessing, models.DocStatusReady}, store.statuses["doc-1"])
	assert.Greater(t, idx.Len(), 1)

	// Every chunk is retrievable under its conversation with full metadata.
	hits, err := idx.Search(context.Background(), hashEmbed("fox"), idx.Len(),
		vectorindex.Filter{ConversationID: "conv-1"}, 1)
	require.NoError(t, err)
	require.Len(t, hits, idx.Len())

	ordinals := make(map[int]bool)
	for _, h := range hits {
		assert.Equal(t, "doc-1", h.Meta.DocumentID)
		assert.Equal(t, "conv-1", h.Meta.ConversationID)
		assert.Equal(t, "doc-1.txt", h.Meta.Source)
		assert.NotEmpty(t, h.ID)
		ordinals[h.Meta.Ordinal] = true
	}
	for i := 0; i < len(hits); i++ {
		assert.True(t, ordinals[i], "missing ordinal %d", i)
	}
}

func TestPipeline_EmptyDocument(t *testing.T) {
	store := newFakeStore()
	idx := vectorindex.NewMemory(testDim)
	p := newTestPipeline(store, &stubEmbedder{}, idx)

	err := p.Ingest(context.Background(), testDoc("doc-1"), nil, "text/plain")
	require.NoError(t, err)

	assert.True(t, store.processed["doc-1"])
	assert.Zero(t, idx.Len())
}

func TestPipeline_EmbeddingFailure(t *testing.T) {
	store := newFakeStore()
	idx := vectorindex.NewMemory(testDim)
	p := newTestPipeline(store, &stubEmbedder{fail: true}, idx)

	err := p.Ingest(context.Background(), testDoc("doc-1"), []byte("some document text"), "text/plain")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrIngestion)
	assert.ErrorIs(t, err, core.ErrEmbedding)

	assert.False(t, store.processed["doc-1"])
	last := store.statuses["doc-1"][len(store.statuses["doc-1"])-1]
	assert.Equal(t, models.DocStatusFailed, last)
	assert.Zero(t, idx.Len())
}

func TestPipeline_UnreadableFile(t *testing.T) {
	store := newFakeStore()
	idx := vectorindex.NewMemory(testDim)
	split := chunker.New(chunker.Config{ChunkSize: 60, Overlap: 12})
	p := NewPipeline(store, failingExtractor{}, split, &stubEmbedder{}, idx, 4, nil)

	err := p.Ingest(context.Background(), testDoc("doc-1"), []byte{1, 2, 3}, "application/pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrIngestion)
	assert.False(t, store.processed["doc-1"])
}

func TestPipeline_ReingestReplacesChunks(t *testing.T) {
	store := newFakeStore()
	idx := vectorindex.NewMemory(testDim)
	p := newTestPipeline(store, &stubEmbedder{}, idx)

	doc := testDoc("doc-1")
	text := strings.Repeat("alpha beta gamma delta epsilon zeta. ", 8)

	require.NoError(t, p.Ingest(context.Background(), doc, []byte(text), "text/plain"))
	first := idx.Len()
	require.Greater(t, first, 0)

	require.NoError(t, p.Ingest(context.Background(), doc, []byte(text), "text/plain"))
	assert.Equal(t, first, idx.Len(), "re-ingestion must replace, not duplicate")
}

func TestPipeline_DimensionMismatch(t *testing.T) {
	store := newFakeStore()
	// Index narrower than the embedder output.
	idx := vectorindex.NewMemory(testDim - 1)
	p := newTestPipeline(store, &stubEmbedder{}, idx)

	err := p.Ingest(context.Background(), testDoc("doc-1"), []byte("short text"), "text/plain")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrIngestion)
	assert.ErrorIs(t, err, core.ErrIndex)
}

func TestPipeline_MissingConversationID(t *testing.T) {
	store := newFakeStore()
	idx := vectorindex.NewMemory(testDim)
	p := newTestPipeline(store, &stubEmbedder{}, idx)

	doc := &models.Document{ID: "doc-1", FileName: "doc-1.txt"}
	err := p.Ingest(context.Background(), doc, []byte("text"), "text/plain")
	assert.ErrorIs(t, err, core.ErrIngestion)
}
