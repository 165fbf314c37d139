package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/docship-labs/docship-core/internal/core/domain"
	"github.com/docship-labs/docship-core/internal/core/ports/driven"
	"github.com/docship-labs/docship-core/internal/core/ports/driving"
	"github.com/docship-labs/docship-core/internal/runtime"
)

// Ensure searchService implements SearchService
var _ driving.SearchService = (*searchService)(nil)

// searchService ranks the user's chunks by cosine similarity against the
// embedded query. Brute force over the user's own chunks only.
type searchService struct {
	chunkStore driven.ChunkStore
	services   *runtime.Services
	logger     *slog.Logger
}

// NewSearchService creates a new SearchService
func NewSearchService(
	chunkStore driven.ChunkStore,
	services *runtime.Services,
	logger *slog.Logger,
) driving.SearchService {
	if logger == nil {
		logger = slog.Default()
	}

	return &searchService{
		chunkStore: chunkStore,
		services:   services,
		logger:     logger,
	}
}

// Search embeds the query text and ranks the user's chunks
func (s *searchService) Search(ctx context.Context, userID, query string, opts *domain.SearchOptions) (*domain.SearchResult, error) {
	if userID == "" || strings.TrimSpace(query) == "" {
		return nil, domain.ErrInvalidInput
	}

	embedding := s.services.EmbeddingService()
	if embedding == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	vector, err := embedding.EmbedQuery(ctx, query)
	if err != nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	return s.SearchByVector(ctx, userID, vector, opts)
}

// SearchByVector ranks the user's chunks against a query vector
func (s *searchService) SearchByVector(ctx context.Context, userID string, vector []float32, opts *domain.SearchOptions) (*domain.SearchResult, error) {
	if userID == "" || len(vector) == 0 {
		return nil, domain.ErrInvalidInput
	}

	opts, err := resolveSearchOptions(opts)
	if err != nil {
		return nil, err
	}

	// Query vector goes through the same truncate+normalize as stored
	// embeddings so comparisons stay in the same space
	query := domain.Normalize(domain.Truncate(vector))

	start := time.Now()

	candidates, err := s.chunkStore.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	matches, scanned, err := domain.RankChunks(query, candidates, opts.Threshold, opts.Limit)
	if err != nil {
		return nil, err
	}

	took := time.Since(start)

	s.logger.Debug("search complete",
		"user_id", userID,
		"scanned", scanned,
		"matches", len(matches),
		"took_ms", took.Milliseconds(),
	)

	return &domain.SearchResult{
		Results:      matches,
		TotalScanned: scanned,
		Took:         took,
	}, nil
}

func resolveSearchOptions(opts *domain.SearchOptions) (*domain.SearchOptions, error) {
	if opts == nil {
		defaults := domain.DefaultSearchOptions()
		return &defaults, nil
	}

	resolved := *opts
	if resolved.Limit <= 0 {
		resolved.Limit = domain.DefaultSearchLimit
	}
	if resolved.Limit > domain.MaxSearchLimit {
		resolved.Limit = domain.MaxSearchLimit
	}
	if resolved.Threshold == 0 {
		resolved.Threshold = domain.DefaultSimilarityThreshold
	}
	if resolved.Threshold < 0 || resolved.Threshold > 1 {
		return nil, domain.ErrInvalidInput
	}
	return &resolved, nil
}
