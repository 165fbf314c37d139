package extractors

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/docship-labs/docship-core/internal/core/domain"
	"github.com/docship-labs/docship-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Extractor = (*PDF)(nil)

// CommandRunner runs an external command and returns its stdout.
// Indirection point so tests do not need pdftotext installed.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// PDF handles PDF documents by shelling out to pdftotext
type PDF struct {
	runner CommandRunner
}

// NewPDF creates a PDF extractor using the system pdftotext binary
func NewPDF() *PDF {
	return &PDF{runner: execRunner{}}
}

// NewPDFWithRunner creates a PDF extractor with a custom command runner
func NewPDFWithRunner(runner CommandRunner) *PDF {
	return &PDF{runner: runner}
}

func (e *PDF) Extract(ctx context.Context, content []byte) (string, error) {
	if len(content) < 5 || string(content[:5]) != "%PDF-" {
		return "", domain.ErrParseFailure
	}

	tmp, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", err
	}
	tmp.Close()

	// "-" sends the extracted text to stdout
	out, err := e.runner.Run(ctx, "pdftotext", tmp.Name(), "-")
	if err != nil {
		return "", domain.ErrParseFailure
	}

	return strings.TrimSpace(string(out)), nil
}

func (e *PDF) SupportedTypes() []string {
	return []string{"application/pdf"}
}

func (e *PDF) Priority() int {
	return 50
}
