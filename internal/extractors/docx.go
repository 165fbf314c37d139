package extractors

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"io"
	"strings"

	"github.com/docship-labs/docship-core/internal/core/domain"
	"github.com/docship-labs/docship-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.Extractor = (*Docx)(nil)

// Docx handles DOCX documents: a ZIP archive whose text lives in
// word/document.xml as paragraphs of runs.
type Docx struct{}

// NewDocx creates a new DOCX extractor
func NewDocx() *Docx {
	return &Docx{}
}

func (e *Docx) Extract(_ context.Context, content []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", domain.ErrParseFailure
	}

	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", domain.ErrParseFailure
		}

		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", domain.ErrParseFailure
		}

		return parseDocumentXML(raw)
	}

	// A valid ZIP without document.xml is not a DOCX
	return "", domain.ErrParseFailure
}

func (e *Docx) SupportedTypes() []string {
	return []string{
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}
}

func (e *Docx) Priority() int {
	return 50
}

// documentXML represents the structure of word/document.xml
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML extracts text content from the document XML, one line
// per paragraph
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", domain.ErrParseFailure
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		for _, r := range para.Runs {
			for _, t := range r.Text {
				result.WriteString(t.Content)
			}
		}
	}

	return strings.TrimSpace(result.String()), nil
}
