package driven

import "context"

// Extractor converts raw file bytes into plain text. Implementations wrap
// format parsers behind a single blocking call: the core never observes
// callback-style completion, only a resolved text or a failure.
type Extractor interface {
	// Extract returns the plain text content of the file.
	// Unreadable content fails with domain.ErrParseFailure.
	Extract(ctx context.Context, content []byte) (string, error)

	// SupportedTypes returns the MIME types this extractor handles.
	// Wildcards like "text/*" are allowed.
	SupportedTypes() []string

	// Priority breaks ties when multiple extractors match (highest wins)
	Priority() int
}

// ExtractorRegistry selects an extractor by MIME type
type ExtractorRegistry interface {
	// Register adds an extractor
	Register(e Extractor)

	// Get returns the best-matching extractor, or nil if none matches
	Get(mimeType string) Extractor

	// List returns all registered MIME types
	List() []string
}
