package retrieval

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/Conversa/internal/core"
	"github.com/markdave123-py/Conversa/internal/core/vectorindex"
)

const testDim = 16

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
		h.Write([]byte(strings.Trim(w, ".,?!")))
		vec[h.Sum32()%testDim]++
	}
	return vec
}

func seed(t *testing.T, idx vectorindex.Index, id, convID, source, text string) {
	t.Helper()
	require.NoError(t, idx.Insert(context.Background(), vectorindex.Entry{
		ID:     id,
		Vector: hashEmbed(text),
		Text:   text,
		Meta:   vectorindex.Metadata{DocumentID: "doc-" + convID, ConversationID: convID, Source: source},
	}))
}

func TestRetrieve_Validation(t *testing.T) {
	svc := NewService(&stubEmbedder{}, vectorindex.NewMemory(testDim), 0.5)

	_, err := svc.Retrieve(context.Background(), "question", "", 3)
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = svc.Retrieve(context.Background(), "  ", "conv-a", 3)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestRetrieve_EmptyIndex(t *testing.T) {
	svc := NewService(&stubEmbedder{}, vectorindex.NewMemory(testDim), 0.5)

	passages, err := svc.Retrieve(context.Background(), "anything at all", "conv-a", 3)
	require.NoError(t, err)
	assert.Empty(t, passages)
}

func TestRetrieve_ReturnsTextAndSource(t *testing.T) {
	idx := vectorindex.NewMemory(testDim)
	seed(t, idx, "c1", "conv-a", "report.pdf", "quarterly revenue grew by ten percent")
	seed(t, idx, "c2", "conv-a", "notes.txt", "the meeting is on tuesday")

	svc := NewService(&stubEmbedder{}, idx, 0.5)
	passages, err := svc.Retrieve(context.Background(), "how much did revenue grow", "conv-a", 1)
	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Equal(t, "quarterly revenue grew by ten percent", passages[0].Text)
	assert.Equal(t, "report.pdf", passages[0].Source)
	assert.Greater(t, passages[0].Score, 0.0)
}

func TestRetrieve_ConversationIsolation(t *testing.T) {
	idx := vectorindex.NewMemory(testDim)
	// Identical content in two conversations.
	seed(t, idx, "a1", "conv-a", "a.txt", "the secret code is 1234")
	seed(t, idx, "b1", "conv-b", "b.txt", "the secret code is 1234")

	svc := NewService(&stubEmbedder{}, idx, 0.5)
	passages, err := svc.Retrieve(context.Background(), "what is the secret code", "conv-a", 10)
	require.NoError(t, err)
	require.Len(t, passages, 1)
	assert.Equal(t, "a.txt", passages[0].Source)
}

func TestRetrieve_EmbedderFailure(t *testing.T) {
	svc := NewService(&stubEmbedder{fail: true}, vectorindex.NewMemory(testDim), 0.5)

	_, err := svc.Retrieve(context.Background(), "question", "conv-a", 3)
	assert.ErrorIs(t, err, core.ErrEmbedding)
}

func TestFormatContext(t *testing.T) {
	assert.Empty(t, FormatContext(nil))

	got := FormatContext([]Passage{
		{Text: "first passage", Source: "a.txt"},
		{Text: "second passage", Source: "b.pdf"},
	})
	assert.Equal(t, "[a.txt]\nfirst passage\n---\n[b.pdf]\nsecond passage", got)
}
