// Package chunker splits raw document text into overlapping bounded spans.
//
// The splitter works recursively over a separator priority list: it prefers
// breaking on paragraph boundaries, then lines, then spaces, and finally
// falls back to a hard rune cut. Separators stay attached to the piece they
// terminate, so every character of the input appears in at least one chunk.
package chunker

import (
	"strings"
)

// DefaultSeparators is the separator priority used when none is configured.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Default sizing, in characters (runes).
const (
	DefaultChunkSize = 1000
	DefaultOverlap   = 200
)

// Config tunes the splitter.
type Config struct {
	// ChunkSize is the soft upper bound on chunk length in runes. Only a
	// single unbreakable piece longer than ChunkSize can exceed it.
	ChunkSize int

	// Overlap is the number of trailing runes carried into the next chunk.
	Overlap int

	// Separators is the split priority, highest first. An empty string
	// means a hard rune cut and must come last.
	Separators []string
}

// Splitter produces deterministic, ordered chunk sequences.
type Splitter struct {
	size    int
	overlap int
	seps    []string
}

// New builds a Splitter, applying defaults and clamping overlap below the
// chunk size.
func New(cfg Config) *Splitter {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DefaultChunkSize
	}
	if cfg.Overlap < 0 {
		cfg.Overlap = DefaultOverlap
	}
	if cfg.Overlap >= cfg.ChunkSize {
		cfg.Overlap = cfg.ChunkSize / 4
	}
	if len(cfg.Separators) == 0 {
		cfg.Separators = DefaultSeparators
	}
	return &Splitter{size: cfg.ChunkSize, overlap: cfg.Overlap, seps: cfg.Separators}
}

// Split returns the ordered chunk texts for the input. Empty input yields
// no chunks.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}
	return s.split(text, s.seps)
}

// split breaks text on the highest-priority separator present, merges small
// pieces back up to the chunk size, and recurses with the remaining
// separators into any piece that is still too large.
func (s *Splitter) split(text string, seps []string) []string {
	sep := seps[len(seps)-1]
	var rest []string
	for i, sp := range seps {
		if sp == "" {
			sep = ""
			break
		}
		if strings.Contains(text, sp) {
			sep = sp
			rest = seps[i+1:]
			break
		}
	}

	if sep == "" {
		return s.hardCut(text)
	}

	pieces := splitKeep(text, sep)

	var out []string
	var good []string
	for _, p := range pieces {
		if runeLen(p) <= s.size {
			good = append(good, p)
			continue
		}
		// Flush what fits, then descend into the oversized piece.
		out = append(out, s.merge(good)...)
		good = good[:0]
		if len(rest) == 0 {
			out = append(out, s.hardCut(p)...)
		} else {
			out = append(out, s.split(p, rest)...)
		}
	}
	out = append(out, s.merge(good)...)
	return out
}

// merge greedily joins consecutive pieces up to the chunk size. When a chunk
// is emitted, trailing pieces totalling at most the overlap are retained as
// the seed of the next chunk.
func (s *Splitter) merge(pieces []string) []string {
	if len(pieces) == 0 {
		return nil
	}

	var chunks []string
	var window []string
	total := 0

	for _, p := range pieces {
		l := runeLen(p)
		if total+l > s.size && len(window) > 0 {
			chunks = append(chunks, strings.Join(window, ""))
			for total > s.overlap || (total+l > s.size && total > 0) {
				total -= runeLen(window[0])
				window = window[1:]
			}
		}
		window = append(window, p)
		total += l
	}
	if len(window) > 0 {
		chunks = append(chunks, strings.Join(window, ""))
	}
	return chunks
}

// hardCut slices text into fixed windows of runes, stepping by
// size-overlap so adjacent windows share the configured overlap.
func (s *Splitter) hardCut(text string) []string {
	runes := []rune(text)
	step := s.size - s.overlap
	if step <= 0 {
		step = s.size
	}

	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + s.size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}

// splitKeep splits on sep keeping the separator attached to the piece it
// terminates, and drops empty pieces.
func splitKeep(text, sep string) []string {
	parts := strings.SplitAfter(text, sep)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func runeLen(s string) int {
	return len([]rune(s))
}
