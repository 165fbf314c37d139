package domain

import "time"

// Processing stages a document moves through during ingestion
const (
	StageLabelExtracted  = "extracted"
	StageLabelChunked    = "chunked"
	StageLabelEmbedded   = "embedded"
	StageLabelChunksOnly = "chunks_only" // embedding failed or unavailable
)

// Document represents one uploaded file owned by a single user.
// Documents are write-once: a re-upload creates a new document.
type Document struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	FileName     string    `json:"file_name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	Text         string    `json:"-"` // cleaned full text, not serialized in listings
	ChunkCount   int       `json:"chunk_count"`
	EmbedCount   int       `json:"embedding_count"`
	ProcessingMS int64     `json:"processing_ms"`
	Stage        string    `json:"stage"`
	EmbedError   string    `json:"embed_error,omitempty"` // recorded reason when Stage is chunks_only
	CreatedAt    time.Time `json:"created_at"`
}

// Searchable reports whether the document can contribute to similarity search.
// A document with chunks but no embeddings is valid, just unsearchable.
func (d *Document) Searchable() bool {
	return d.EmbedCount > 0
}

// Chunk is a contiguous, possibly overlapping substring of a document's
// cleaned text, addressed by (DocumentID, Position).
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	UserID     string    `json:"user_id"`
	Position   int       `json:"position"`
	Content    string    `json:"content"`
	Embedding  []float32 `json:"embedding,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// DocumentWithChunks combines a document with its chunks in position order
type DocumentWithChunks struct {
	Document *Document `json:"document"`
	Chunks   []*Chunk  `json:"chunks"`
}
