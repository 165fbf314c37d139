package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/docship-labs/docship-core/internal/core/domain"
	"github.com/docship-labs/docship-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore implements driven.ChunkStore using PostgreSQL
type ChunkStore struct {
	db *DB
}

// NewChunkStore creates a new ChunkStore
func NewChunkStore(db *DB) *ChunkStore {
	return &ChunkStore{db: db}
}

// SaveBatch saves multiple chunks in a transaction
func (s *ChunkStore) SaveBatch(ctx context.Context, chunks []*domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		return insertChunks(ctx, tx, chunks)
	})
}

// GetByDocument retrieves all chunks for a document in position order
func (s *ChunkStore) GetByDocument(ctx context.Context, documentID string) ([]*domain.Chunk, error) {
	query := `
		SELECT id, document_id, user_id, chunk_index, content, embedding, created_at
		FROM chunks
		WHERE document_id = $1
		ORDER BY chunk_index ASC
	`

	rows, err := s.db.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanChunks(rows)
}

// GetByUser retrieves all of a user's chunks grouped by document. A
// single join keeps this one round trip; grouping happens in memory
// because documents arrive in creation order and chunks in position
// order.
func (s *ChunkStore) GetByUser(ctx context.Context, userID string) ([]*domain.DocumentWithChunks, error) {
	query := `
		SELECT d.id, d.user_id, d.file_name, d.mime_type, d.size_bytes, d.content,
		       d.chunk_count, d.embed_count, d.processing_ms, d.stage, d.embed_error, d.created_at,
		       c.id, c.chunk_index, c.content, c.embedding, c.created_at
		FROM documents d
		JOIN chunks c ON c.document_id = d.id
		WHERE d.user_id = $1
		ORDER BY d.created_at ASC, d.id ASC, c.chunk_index ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.DocumentWithChunks
	var current *domain.DocumentWithChunks

	for rows.Next() {
		var doc domain.Document
		var chunk domain.Chunk
		var embeddingJSON []byte

		err := rows.Scan(
			&doc.ID,
			&doc.UserID,
			&doc.FileName,
			&doc.MimeType,
			&doc.SizeBytes,
			&doc.Text,
			&doc.ChunkCount,
			&doc.EmbedCount,
			&doc.ProcessingMS,
			&doc.Stage,
			&doc.EmbedError,
			&doc.CreatedAt,
			&chunk.ID,
			&chunk.Position,
			&chunk.Content,
			&embeddingJSON,
			&chunk.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		chunk.DocumentID = doc.ID
		chunk.UserID = doc.UserID
		if len(embeddingJSON) > 0 {
			if err := json.Unmarshal(embeddingJSON, &chunk.Embedding); err != nil {
				return nil, err
			}
		}

		if current == nil || current.Document.ID != doc.ID {
			current = &domain.DocumentWithChunks{Document: &doc}
			result = append(result, current)
		}
		current.Chunks = append(current.Chunks, &chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByDocument deletes all chunks for a document
func (s *ChunkStore) DeleteByDocument(ctx context.Context, documentID string) error {
	query := `DELETE FROM chunks WHERE document_id = $1`
	_, err := s.db.ExecContext(ctx, query, documentID)
	return err
}

func scanChunks(rows *sql.Rows) ([]*domain.Chunk, error) {
	var chunks []*domain.Chunk
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingJSON []byte

		err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.UserID,
			&chunk.Position,
			&chunk.Content,
			&embeddingJSON,
			&chunk.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if len(embeddingJSON) > 0 {
			if err := json.Unmarshal(embeddingJSON, &chunk.Embedding); err != nil {
				return nil, err
			}
		}

		chunks = append(chunks, &chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chunks, nil
}
