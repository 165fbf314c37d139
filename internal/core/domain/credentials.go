package domain

import "time"

// ProviderType identifies an embedding provider
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
)

// AICredential stores the embedding API credential configured by an admin.
// The secret key lives encrypted at rest; the default store read projection
// excludes it, and only the privileged read path used to construct the
// embedding adapter ever sees it.
type AICredential struct {
	OwnerID  string       `json:"owner_id"` // admin user who configured it
	Provider ProviderType `json:"provider"`
	Model    string       `json:"model"`
	BaseURL  string       `json:"base_url,omitempty"`

	// APIKey is populated only by the privileged read path
	APIKey string `json:"-"` // Never serialize

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AICredentialSummary provides a safe view without the secret
type AICredentialSummary struct {
	Provider  ProviderType `json:"provider"`
	Model     string       `json:"model"`
	BaseURL   string       `json:"base_url,omitempty"`
	HasKey    bool         `json:"has_key"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ToSummary converts an AICredential to AICredentialSummary
func (c *AICredential) ToSummary() *AICredentialSummary {
	return &AICredentialSummary{
		Provider:  c.Provider,
		Model:     c.Model,
		BaseURL:   c.BaseURL,
		HasKey:    c.APIKey != "",
		UpdatedAt: c.UpdatedAt,
	}
}
