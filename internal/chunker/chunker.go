// Package chunker splits cleaned document text into overlapping chunks for
// embedding and retrieval. Splitting is recursive: separators are tried in
// priority order and oversized pieces are re-split with the next separator,
// down to per-character splits as the last resort.
package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/docship-labs/docship-core/internal/core/domain"
)

// Config configures the splitter behavior
type Config struct {
	// ChunkSize is the maximum length of a chunk, in runes
	ChunkSize int

	// ChunkOverlap is how many runes of the tail of one chunk reappear at
	// the head of the next, preserving context across boundaries
	ChunkOverlap int

	// Separators are tried in order; the empty string splits anywhere
	Separators []string
}

// DefaultConfig returns the standard chunking configuration
func DefaultConfig() Config {
	return Config{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		Separators:   []string{"\n\n", "\n", " ", ""},
	}
}

// Splitter splits text into overlapping chunks. Pure and safe for
// concurrent use.
type Splitter struct {
	cfg Config
}

// New creates a Splitter. An overlap that is not smaller than the chunk
// size can never make progress, so it is rejected as a configuration error.
func New(cfg Config) (*Splitter, error) {
	if cfg.ChunkSize <= 0 || cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, domain.ErrInvalidChunkConfig
	}
	if len(cfg.Separators) == 0 {
		cfg.Separators = DefaultConfig().Separators
	}
	return &Splitter{cfg: cfg}, nil
}

// Split splits text into chunks of at most ChunkSize runes. Chunks that are
// empty after trimming are dropped; the result preserves document order.
// Empty input yields an empty result, which callers treat as "nothing to
// embed", not an error.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.splitText(text, s.cfg.Separators)
}

// splitText picks the first separator present in text, splits on it, and
// recursively re-splits any piece that still exceeds ChunkSize using the
// remaining separators.
func (s *Splitter) splitText(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var next []string
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			separator = sep
			next = separators[i+1:]
			break
		}
	}

	var final []string
	var pending []string

	for _, piece := range splitOn(text, separator) {
		if runeLen(piece) < s.cfg.ChunkSize {
			pending = append(pending, piece)
			continue
		}
		if len(pending) > 0 {
			final = append(final, s.merge(pending, separator)...)
			pending = nil
		}
		if len(next) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.splitText(piece, next)...)
		}
	}
	if len(pending) > 0 {
		final = append(final, s.merge(pending, separator)...)
	}

	return final
}

// merge accumulates small pieces into chunks up to ChunkSize, sliding a
// window so that up to ChunkOverlap runes carry over into the next chunk.
func (s *Splitter) merge(pieces []string, separator string) []string {
	sepLen := runeLen(separator)

	var chunks []string
	var window []string
	total := 0

	for _, piece := range pieces {
		pieceLen := runeLen(piece)
		if len(window) > 0 && total+pieceLen+sepLen > s.cfg.ChunkSize {
			if chunk := strings.TrimSpace(strings.Join(window, separator)); chunk != "" {
				chunks = append(chunks, chunk)
			}
			// Drop from the front until within the overlap budget
			for total > s.cfg.ChunkOverlap || (total+pieceLen+sepLen > s.cfg.ChunkSize && total > 0) {
				total -= runeLen(window[0])
				if len(window) > 1 {
					total -= sepLen
				}
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += pieceLen
		if len(window) > 1 {
			total += sepLen
		}
	}

	if chunk := strings.TrimSpace(strings.Join(window, separator)); chunk != "" {
		chunks = append(chunks, chunk)
	}

	return chunks
}

// splitOn splits text by separator, dropping empty pieces. The empty
// separator splits into individual runes.
func splitOn(text, separator string) []string {
	var parts []string
	if separator == "" {
		parts = strings.Split(text, "")
	} else {
		parts = strings.Split(text, separator)
	}

	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
