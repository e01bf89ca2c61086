// Package parser extracts text and metadata from document files (PDF, DOCX,
// XLSX, plain text) behind one Parser capability.
package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/bunseki/internal/models"
)

// ErrNotFound reports a missing source file.
var ErrNotFound = errors.New("file not found")

// ErrUnsupportedFormat reports that no parser matches a file.
var ErrUnsupportedFormat = errors.New("unsupported file type")

// Parser parses one family of document formats.
type Parser interface {
	// Supports reports whether this parser handles the given file path.
	Supports(path string) bool
	// Parse extracts text and metadata from the file at path.
	Parse(path string) (*models.ParsedDocument, error)
}

// Registry dispatches to format parsers in a fixed priority order.
type Registry struct {
	parsers []Parser
}

// NewRegistry returns a registry with all built-in parsers. Order matters:
// the first parser whose Supports returns true wins.
func NewRegistry() *Registry {
	return &Registry{
		parsers: []Parser{
			&PDFParser{},
			&DocxParser{},
			&XlsxParser{},
			&TextParser{},
		},
	}
}

// Parse parses the file at path with the first matching parser. Returns
// ErrNotFound when the file does not exist and ErrUnsupportedFormat when no
// parser handles its type.
func (r *Registry) Parse(path string) (*models.ParsedDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat file: %w", err)
	}
	for _, p := range r.parsers {
		if p.Supports(path) {
			return p.Parse(path)
		}
	}
	return nil, fmt.Errorf("%w: %s (supported: %s)",
		ErrUnsupportedFormat, filepath.Ext(path), strings.Join(r.SupportedTypes(), ", "))
}

// SupportedTypes lists the file extensions the registry can parse.
func (r *Registry) SupportedTypes() []string {
	return []string{"pdf", "docx", "xlsx", "txt", "md", "csv", "log", "json", "yaml", "yml"}
}

// baseMetadata builds metadata common to all parsers from the file itself.
// Title defaults to the file name without extension.
func baseMetadata(path, fileType string) models.DocumentMetadata {
	meta := models.DocumentMetadata{
		Title:    strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		FileType: fileType,
	}
	if abs, err := filepath.Abs(path); err == nil {
		meta.FilePath = abs
	} else {
		meta.FilePath = path
	}
	if info, err := os.Stat(path); err == nil {
		meta.FileSizeBytes = info.Size()
	}
	return meta
}
