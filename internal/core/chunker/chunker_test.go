package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// coverage walks the chunks in order and verifies that, together, they cover
// every byte of the input with no gaps. Chunks are always contiguous
// substrings of the input, so positional matching is enough.
func assertCovers(t *testing.T, text string, chunks []string) {
	t.Helper()

	coverEnd := 0
	searchFrom := 0
	for i, ch := range chunks {
		idx := strings.Index(text[searchFrom:], ch)
		require.GreaterOrEqual(t, idx, 0, "chunk %d is not a substring of the input", i)
		idx += searchFrom
		require.LessOrEqual(t, idx, coverEnd, "gap before chunk %d", i)
		if end := idx + len(ch); end > coverEnd {
			coverEnd = end
		}
		searchFrom = idx + 1
	}
	require.Equal(t, len(text), coverEnd, "input not fully covered")
}

func TestSplit_Empty(t *testing.T) {
	s := New(Config{ChunkSize: 100, Overlap: 20})
	assert.Nil(t, s.Split(""))
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	s := New(Config{ChunkSize: 500, Overlap: 50})

	text := "The invoice total is 482 dollars."
	chunks := s.Split(text)

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplit_CoversEveryCharacter(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "sentence number %d about topic %d.\n", i, i%7)
		if i%5 == 4 {
			b.WriteString("\n")
		}
	}
	text := b.String()

	s := New(Config{ChunkSize: 120, Overlap: 30})
	chunks := s.Split(text)

	require.NotEmpty(t, chunks)
	assertCovers(t, text, chunks)
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta epsilon. ", 30)
	s := New(Config{ChunkSize: 80, Overlap: 16})

	first := s.Split(text)
	second := s.Split(text)
	assert.Equal(t, first, second)
}

func TestSplit_RespectsChunkSize(t *testing.T) {
	words := make([]string, 200)
	for i := range words {
		words[i] = fmt.Sprintf("w%03d", i)
	}
	text := strings.Join(words, " ")

	const size = 50
	s := New(Config{ChunkSize: size, Overlap: 10})
	for i, ch := range s.Split(text) {
		assert.LessOrEqual(t, len([]rune(ch)), size, "chunk %d exceeds chunk size", i)
	}
}

func TestSplit_UnbrokenWordHardCut(t *testing.T) {
	text := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ01234"

	s := New(Config{ChunkSize: 10, Overlap: 2})
	chunks := s.Split(text)

	require.Greater(t, len(chunks), 1)
	for i, ch := range chunks {
		assert.LessOrEqual(t, len(ch), 10, "chunk %d", i)
	}
	assertCovers(t, text, chunks)

	// Hard-cut windows step by size-overlap, so adjacent chunks share the
	// configured overlap.
	for i := 1; i < len(chunks); i++ {
		prev, cur := chunks[i-1], chunks[i]
		n := min(2, len(cur))
		assert.Equal(t, prev[len(prev)-n:], cur[:n], "chunks %d/%d overlap", i-1, i)
	}
}

func TestSplit_AdjacentChunksOverlap(t *testing.T) {
	words := make([]string, 120)
	for i := range words {
		words[i] = fmt.Sprintf("tok%02d", i%40)
	}
	text := strings.Join(words, " ")

	s := New(Config{ChunkSize: 60, Overlap: 20})
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		assert.Greater(t, sharedBoundary(chunks[i-1], chunks[i]), 0,
			"chunks %d and %d share no overlap", i-1, i)
	}
}

func TestSplit_PrefersParagraphBoundaries(t *testing.T) {
	text := "first paragraph here\n\nsecond paragraph here"

	s := New(Config{ChunkSize: 25, Overlap: 0})
	chunks := s.Split(text)

	require.Len(t, chunks, 2)
	assert.Equal(t, "first paragraph here\n\n", chunks[0])
	assert.Equal(t, "second paragraph here", chunks[1])
}

func TestSplit_UnicodeSafe(t *testing.T) {
	text := strings.Repeat("héllø wörld ", 30)

	s := New(Config{ChunkSize: 40, Overlap: 8})
	chunks := s.Split(text)

	require.NotEmpty(t, chunks)
	for i, ch := range chunks {
		assert.LessOrEqual(t, len([]rune(ch)), 40, "chunk %d", i)
		assert.True(t, strings.Contains(text, ch), "chunk %d is not a substring", i)
	}
}

// sharedBoundary returns the longest k such that the suffix of a equals the
// prefix of b.
func sharedBoundary(a, b string) int {
	maxK := len(a)
	if len(b) < maxK {
		maxK = len(b)
	}
	for k := maxK; k > 0; k-- {
		if a[len(a)-k:] == b[:k] {
			return k
		}
	}
	return 0
}
