package domain

import (
	"sort"
	"time"
)

// Search defaults
const (
	DefaultSearchLimit         = 5
	DefaultSimilarityThreshold = 0.7
	MaxSearchLimit             = 50
)

// SearchOptions configures a similarity search request
type SearchOptions struct {
	Limit     int     `json:"limit"`
	Threshold float64 `json:"threshold"`
}

// DefaultSearchOptions returns sensible defaults
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		Limit:     DefaultSearchLimit,
		Threshold: DefaultSimilarityThreshold,
	}
}

// ChunkMatch is one ranked similarity search hit
type ChunkMatch struct {
	DocumentID string            `json:"document_id"`
	FileName   string            `json:"file_name"`
	ChunkIndex int               `json:"chunk_index"`
	Content    string            `json:"content"`
	Similarity float64           `json:"similarity"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// SearchResult represents the result of a similarity query
type SearchResult struct {
	Results      []*ChunkMatch `json:"results"`
	TotalScanned int           `json:"total_scanned"`
	Took         time.Duration `json:"took"`
}

// RankChunks scores every embedded chunk in the candidate set against the
// query vector and returns the matches at or above threshold, sorted by
// similarity descending and truncated to limit.
//
// The function is pure: it sees only the explicit inputs, so candidate
// scoping (one user's documents) is the caller's responsibility. Ties keep
// their scan order - candidate document order, then chunk position - via a
// stable sort. A chunk embedding of the wrong length aborts the entire
// ranking with ErrDimensionMismatch; no partial results are returned.
// Documents without embeddings are skipped. Exact and brute force over the
// current data: the intended scale is one user's personal document set.
func RankChunks(query []float32, candidates []*DocumentWithChunks, threshold float64, limit int) ([]*ChunkMatch, int, error) {
	var matches []*ChunkMatch
	scanned := 0

	for _, cand := range candidates {
		if cand.Document == nil || !cand.Document.Searchable() {
			continue
		}
		for _, chunk := range cand.Chunks {
			if chunk.Embedding == nil {
				continue
			}
			sim, err := Cosine(query, chunk.Embedding)
			if err != nil {
				return nil, 0, err
			}
			scanned++
			if sim >= threshold {
				matches = append(matches, &ChunkMatch{
					DocumentID: cand.Document.ID,
					FileName:   cand.Document.FileName,
					ChunkIndex: chunk.Position,
					Content:    chunk.Content,
					Similarity: sim,
					Metadata: map[string]string{
						"mime_type": cand.Document.MimeType,
					},
				})
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, scanned, nil
}
