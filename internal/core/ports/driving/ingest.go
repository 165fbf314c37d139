package driving

import (
	"context"

	"github.com/docship-labs/docship-core/internal/core/domain"
)

// UploadRequest carries an uploaded file through the ingestion pipeline
type UploadRequest struct {
	UserID   string
	FileName string
	MimeType string
	Content  []byte
}

// IngestService runs the upload pipeline: extract, chunk, embed, persist
type IngestService interface {
	// Ingest processes an uploaded file into a stored document with
	// chunks and, when embedding is available, embeddings. Embedding
	// failure degrades the document to chunks-only instead of failing
	// the upload.
	Ingest(ctx context.Context, req *UploadRequest) (*domain.Document, error)
}
