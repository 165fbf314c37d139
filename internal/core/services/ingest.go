package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/docship-labs/docship-core/internal/chunker"
	"github.com/docship-labs/docship-core/internal/core/domain"
	"github.com/docship-labs/docship-core/internal/core/ports/driven"
	"github.com/docship-labs/docship-core/internal/core/ports/driving"
	"github.com/docship-labs/docship-core/internal/runtime"
)

// Ensure ingestService implements IngestService
var _ driving.IngestService = (*ingestService)(nil)

// ingestService runs the upload pipeline:
//  1. Pick an extractor for the MIME type
//  2. Extract and clean the text
//  3. Split into chunks
//  4. Embed the chunks (best effort)
//  5. Truncate and normalize the vectors
//  6. Persist document and chunks in one transaction
//
// Embedding failure does not fail the upload: the document lands as
// chunks_only and stays retrievable, just not searchable.
type ingestService struct {
	documentStore driven.DocumentStore
	extractors    driven.ExtractorRegistry
	splitter      *chunker.Splitter
	services      *runtime.Services
	logger        *slog.Logger
}

// IngestServiceConfig holds dependencies for the ingest service
type IngestServiceConfig struct {
	DocumentStore driven.DocumentStore
	Extractors    driven.ExtractorRegistry
	Splitter      *chunker.Splitter
	Services      *runtime.Services
	Logger        *slog.Logger
}

// NewIngestService creates a new IngestService
func NewIngestService(cfg IngestServiceConfig) driving.IngestService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ingestService{
		documentStore: cfg.DocumentStore,
		extractors:    cfg.Extractors,
		splitter:      cfg.Splitter,
		services:      cfg.Services,
		logger:        logger,
	}
}

// Ingest processes an uploaded file into a stored document
func (s *ingestService) Ingest(ctx context.Context, req *driving.UploadRequest) (*domain.Document, error) {
	if req.UserID == "" || req.FileName == "" || len(req.Content) == 0 {
		return nil, domain.ErrInvalidInput
	}

	start := time.Now()

	// Stage 1: extract
	extractor := s.extractors.Get(req.MimeType)
	if extractor == nil {
		return nil, domain.NewPipelineError(domain.StageExtract, domain.ErrUnsupportedType)
	}

	text, err := extractor.Extract(ctx, req.Content)
	if err != nil {
		return nil, domain.NewPipelineError(domain.StageExtract, err)
	}
	text = cleanText(text)

	doc := &domain.Document{
		ID:        generateID(),
		UserID:    req.UserID,
		FileName:  req.FileName,
		MimeType:  req.MimeType,
		SizeBytes: int64(len(req.Content)),
		Text:      text,
		Stage:     domain.StageLabelExtracted,
		CreatedAt: time.Now(),
	}

	// Stage 2: chunk
	pieces := s.splitter.Split(text)
	chunks := make([]*domain.Chunk, len(pieces))
	for i, content := range pieces {
		chunks[i] = &domain.Chunk{
			ID:         generateID(),
			DocumentID: doc.ID,
			UserID:     req.UserID,
			Position:   i,
			Content:    content,
			CreatedAt:  doc.CreatedAt,
		}
	}
	doc.ChunkCount = len(chunks)
	if len(chunks) > 0 {
		doc.Stage = domain.StageLabelChunked
	}

	// Stage 3: embed, best effort
	if len(chunks) > 0 {
		s.embedChunks(ctx, doc, chunks, pieces)
	}

	// A cancelled upload persists nothing
	if err := ctx.Err(); err != nil {
		return nil, domain.NewPipelineError(domain.StagePersist, err)
	}

	// Stage 4: persist document and chunks together
	doc.ProcessingMS = time.Since(start).Milliseconds()
	if err := s.documentStore.SaveWithChunks(ctx, doc, chunks); err != nil {
		return nil, domain.NewPipelineError(domain.StagePersist, err)
	}

	s.logger.Info("document ingested",
		"document_id", doc.ID,
		"user_id", doc.UserID,
		"chunks", doc.ChunkCount,
		"embeddings", doc.EmbedCount,
		"stage", doc.Stage,
		"processing_ms", doc.ProcessingMS,
	)

	return doc, nil
}

// embedChunks attaches normalized embeddings to the chunks, or marks the
// document chunks_only when the embedding service is missing or fails
func (s *ingestService) embedChunks(ctx context.Context, doc *domain.Document, chunks []*domain.Chunk, texts []string) {
	embedding := s.services.EmbeddingService()
	if embedding == nil {
		doc.Stage = domain.StageLabelChunksOnly
		doc.EmbedError = domain.ErrEmbeddingUnavailable.Error()
		return
	}

	vectors, err := embedding.Embed(ctx, texts)
	if err != nil {
		s.logger.Warn("embedding failed, storing chunks only",
			"document_id", doc.ID,
			"error", err,
		)
		doc.Stage = domain.StageLabelChunksOnly
		doc.EmbedError = err.Error()
		return
	}

	if len(vectors) != len(chunks) {
		s.logger.Warn("embedding count mismatch, storing chunks only",
			"document_id", doc.ID,
			"want", len(chunks),
			"got", len(vectors),
		)
		doc.Stage = domain.StageLabelChunksOnly
		doc.EmbedError = domain.ErrDimensionMismatch.Error()
		return
	}

	for i, v := range vectors {
		chunks[i].Embedding = domain.Normalize(domain.Truncate(v))
	}
	doc.EmbedCount = len(chunks)
	doc.Stage = domain.StageLabelEmbedded
}

// cleanText normalizes line endings and strips control characters that
// break downstream storage
func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\x00", "")
	return strings.TrimSpace(text)
}
