package driven

import (
	"context"

	"github.com/docship-labs/docship-core/internal/core/domain"
)

// CredentialStore persists the embedding API credential with the secret
// encrypted at rest. The default read projection excludes the secret; only
// GetWithSecret decrypts it, and only the code path that constructs the
// embedding adapter may use it.
type CredentialStore interface {
	// Save stores the credential, encrypting the API key
	Save(ctx context.Context, cred *domain.AICredential) error

	// Get retrieves the credential without the secret (APIKey is empty)
	Get(ctx context.Context) (*domain.AICredential, error)

	// GetWithSecret retrieves the credential with the API key decrypted.
	// Privileged read path for the embedding call only.
	GetWithSecret(ctx context.Context) (*domain.AICredential, error)

	// Delete removes the stored credential
	Delete(ctx context.Context) error
}
