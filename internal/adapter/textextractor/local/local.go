// Package local extracts plain text from uploaded documents in process,
// dispatching on file extension: .txt, .pdf, and .docx are supported.
package local

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"log/slog"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"github.com/fairyhunter13/interview-coach/internal/domain"
	"github.com/fairyhunter13/interview-coach/pkg/textx"
)

// Extractor implements domain.TextExtractor without external services.
type Extractor struct{}

// New constructs an Extractor.
func New() *Extractor { return &Extractor{} }

// Extract returns the document's plain text. Unsupported extensions yield
// empty text and no error, so callers can treat them as "nothing to read".
func (e *Extractor) Extract(_ domain.Context, filename string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		return clean(strings.ToValidUTF8(string(data), "")), nil
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDocx(data)
	default:
		slog.Debug("unsupported upload extension", slog.String("filename", filename))
		return "", nil
	}
}

// clean sanitizes control characters and normalizes line endings.
func clean(s string) string {
	s = textx.SanitizeText(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			slog.Warn("pdf page extraction failed", slog.Int("page", i), slog.Any("error", err))
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return clean(b.String()), nil
}

var xmlTagRe = regexp.MustCompile(`<[^>]+>`)

func extractDocx(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer func() { _ = doc.Close() }()
	// GetContent returns the raw document XML; strip the markup.
	content := doc.Editable().GetContent()
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = xmlTagRe.ReplaceAllString(content, "")
	return clean(content), nil
}

var _ domain.TextExtractor = (*Extractor)(nil)
