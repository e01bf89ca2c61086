package parser

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/hyperjump/bunseki/internal/models"
	"github.com/hyperjump/bunseki/pkg/utils"
)

// PDFParser parses PDF files, preserving page boundaries so documents can be
// chunked page by page.
type PDFParser struct{}

// Supports reports whether path has a .pdf extension.
func (p *PDFParser) Supports(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".pdf"
}

// Parse extracts per-page text and metadata from a PDF file.
func (p *PDFParser) Parse(path string) (*models.ParsedDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	numPages := r.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	full := strings.Join(pages, "\n\n")

	meta := baseMetadata(path, "pdf")
	meta.Pages = numPages
	meta.WordCount = utils.WordCount(full)
	return &models.ParsedDocument{Text: full, Pages: pages, Metadata: meta}, nil
}
