package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/docship-labs/docship-core/internal/core/domain"
	"github.com/docship-labs/docship-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements driven.DocumentStore using PostgreSQL.
// Reads and deletes filter by user_id in the query itself, so a lookup
// with the wrong user is just sql.ErrNoRows.
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a new DocumentStore
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

const documentColumns = `id, user_id, file_name, mime_type, size_bytes, content, chunk_count, embed_count, processing_ms, stage, embed_error, created_at`

// Save creates a document
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := s.db.ExecContext(ctx, query, documentArgs(doc)...)
	return err
}

// SaveWithChunks creates a document and its chunks in one transaction.
// Either everything lands or nothing does.
func (s *DocumentStore) SaveWithChunks(ctx context.Context, doc *domain.Document, chunks []*domain.Chunk) error {
	return s.db.Transaction(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO documents (` + documentColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`
		if _, err := tx.ExecContext(ctx, query, documentArgs(doc)...); err != nil {
			return err
		}
		return insertChunks(ctx, tx, chunks)
	})
}

// Get retrieves a document owned by userID
func (s *DocumentStore) Get(ctx context.Context, userID, id string) (*domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE user_id = $1 AND id = $2
	`
	return scanDocument(s.db.QueryRowContext(ctx, query, userID, id))
}

// GetByUser retrieves the user's documents in creation order with pagination
func (s *DocumentStore) GetByUser(ctx context.Context, userID string, limit, offset int) ([]*domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*domain.Document
	for rows.Next() {
		doc, err := scanDocumentRow(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete deletes a document owned by userID
func (s *DocumentStore) Delete(ctx context.Context, userID, id string) error {
	query := `DELETE FROM documents WHERE user_id = $1 AND id = $2`
	result, err := s.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByUser returns the user's document count
func (s *DocumentStore) CountByUser(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM documents WHERE user_id = $1`
	var count int
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

func documentArgs(doc *domain.Document) []any {
	return []any{
		doc.ID,
		doc.UserID,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		doc.Text,
		doc.ChunkCount,
		doc.EmbedCount,
		doc.ProcessingMS,
		doc.Stage,
		doc.EmbedError,
		doc.CreatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row *sql.Row) (*domain.Document, error) {
	doc, err := scanDocumentRow(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

func scanDocumentRow(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	err := row.Scan(
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
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// insertChunks bulk inserts chunks within a transaction. Embeddings are
// stored as JSON arrays; a chunk without an embedding stores NULL.
func insertChunks(ctx context.Context, tx *sql.Tx, chunks []*domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	query := `
		INSERT INTO chunks (id, document_id, user_id, chunk_index, content, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		var embeddingJSON any
		if chunk.Embedding != nil {
			data, err := json.Marshal(chunk.Embedding)
			if err != nil {
				return err
			}
			embeddingJSON = data
		}

		_, err = stmt.ExecContext(ctx,
			chunk.ID,
			chunk.DocumentID,
			chunk.UserID,
			chunk.Position,
			chunk.Content,
			embeddingJSON,
			chunk.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return nil
}
