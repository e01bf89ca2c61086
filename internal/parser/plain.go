package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/bunseki/internal/models"
	"github.com/hyperjump/bunseki/pkg/utils"
)

// textExtensions are the plain text formats the TextParser accepts.
var textExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".csv":  true,
	".log":  true,
	".json": true,
	".yaml": true,
	".yml":  true,
}

// TextParser parses plain text files. Invalid UTF-8 sequences are replaced
// with the replacement character rather than failing.
type TextParser struct{}

// Supports reports whether path has a known plain text extension.
func (p *TextParser) Supports(path string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(path))]
}

// Parse reads the file as UTF-8 text.
func (p *TextParser) Parse(path string) (*models.ParsedDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	text := strings.ToValidUTF8(string(content), "�")

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	meta := baseMetadata(path, ext)
	meta.WordCount = utils.WordCount(text)
	return &models.ParsedDocument{Text: text, Metadata: meta}, nil
}
