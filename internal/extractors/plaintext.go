package extractors

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/docship-labs/docship-core/internal/core/domain"
	"github.com/docship-labs/docship-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Extractor = (*Plaintext)(nil)

// Plaintext handles plain text content. It also acts as the fallback for
// text-like types such as markdown and csv.
type Plaintext struct{}

// NewPlaintext creates a new plaintext extractor
func NewPlaintext() *Plaintext {
	return &Plaintext{}
}

func (e *Plaintext) Extract(_ context.Context, content []byte) (string, error) {
	if !utf8.Valid(content) {
		return "", domain.ErrParseFailure
	}

	text := string(content)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text), nil
}

func (e *Plaintext) SupportedTypes() []string {
	return []string{"text/*", "application/json"}
}

func (e *Plaintext) Priority() int {
	return 1 // Lowest priority, fallback for text-like types
}
