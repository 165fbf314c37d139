package postgres

import (
	"context"
	"database/sql"

	"github.com/docship-labs/docship-core/internal/core/domain"
	"github.com/docship-labs/docship-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CredentialStore = (*CredentialStore)(nil)

// CredentialStore implements driven.CredentialStore using PostgreSQL.
// One credential row per deployment; the API key is encrypted with
// AES-256-GCM before it touches the database, and only GetWithSecret
// ever decrypts it.
type CredentialStore struct {
	db        *DB
	encryptor *SecretEncryptor
}

// NewCredentialStore creates a new CredentialStore
func NewCredentialStore(db *DB, encryptor *SecretEncryptor) *CredentialStore {
	return &CredentialStore{db: db, encryptor: encryptor}
}

// Save stores the credential, encrypting the API key
func (s *CredentialStore) Save(ctx context.Context, cred *domain.AICredential) error {
	blob, err := s.encryptor.EncryptString(cred.APIKey)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ai_credentials (singleton, owner_id, provider, model, base_url, encrypted_key, created_at, updated_at)
		VALUES (TRUE, $1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (singleton) DO UPDATE SET
			owner_id = EXCLUDED.owner_id,
			provider = EXCLUDED.provider,
			model = EXCLUDED.model,
			base_url = EXCLUDED.base_url,
			encrypted_key = EXCLUDED.encrypted_key,
			updated_at = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(ctx, query,
		cred.OwnerID,
		cred.Provider,
		cred.Model,
		cred.BaseURL,
		blob,
		cred.CreatedAt,
		cred.UpdatedAt,
	)
	return err
}

// Get retrieves the credential without the secret
func (s *CredentialStore) Get(ctx context.Context) (*domain.AICredential, error) {
	cred, _, err := s.get(ctx)
	return cred, err
}

// GetWithSecret retrieves the credential with the API key decrypted
func (s *CredentialStore) GetWithSecret(ctx context.Context) (*domain.AICredential, error) {
	cred, blob, err := s.get(ctx)
	if err != nil {
		return nil, err
	}

	key, err := s.encryptor.DecryptString(blob)
	if err != nil {
		return nil, err
	}
	cred.APIKey = key
	return cred, nil
}

// Delete removes the stored credential
func (s *CredentialStore) Delete(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM ai_credentials WHERE singleton`)
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

func (s *CredentialStore) get(ctx context.Context) (*domain.AICredential, []byte, error) {
	query := `
		SELECT owner_id, provider, model, base_url, encrypted_key, created_at, updated_at
		FROM ai_credentials
		WHERE singleton
	`

	var cred domain.AICredential
	var blob []byte
	err := s.db.QueryRowContext(ctx, query).Scan(
		&cred.OwnerID,
		&cred.Provider,
		&cred.Model,
		&cred.BaseURL,
		&blob,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return &cred, blob, nil
}
