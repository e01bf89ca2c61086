package parser

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hyperjump/bunseki/internal/models"
	"github.com/hyperjump/bunseki/pkg/utils"
)

// docxDocumentXMLPath is the path to the main document body inside a .docx zip.
const docxDocumentXMLPath = "word/document.xml"

// docxCorePropsPath is the path to the core properties part (title, author).
const docxCorePropsPath = "docProps/core.xml"

// wpTag splits the document body into paragraphs. Matching the closing tag
// keeps paragraphs with attributes (<w:p w:rsidR="...">) intact.
var wpTag = regexp.MustCompile(`</w:p>`)

// wtTag matches <w:t>text</w:t> including attributed forms like
// <w:t xml:space="preserve">.
var wtTag = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

var dcTitleTag = regexp.MustCompile(`<dc:title>([^<]*)</dc:title>`)
var dcCreatorTag = regexp.MustCompile(`<dc:creator>([^<]*)</dc:creator>`)

// DocxParser parses DOCX files. DOCX is a ZIP containing word/document.xml
// (OOXML); all <w:t>...</w:t> text nodes are extracted per paragraph so
// content survives regardless of run attributes.
type DocxParser struct{}

// Supports reports whether path has a .docx extension.
func (p *DocxParser) Supports(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".docx"
}

// Parse extracts paragraph text and core properties from a DOCX file.
func (p *DocxParser) Parse(path string) (*models.ParsedDocument, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open DOCX: not a zip: %w", err)
	}
	defer zr.Close()

	docXML, err := readZipFile(&zr.Reader, docxDocumentXMLPath)
	if err != nil {
		return nil, fmt.Errorf("open DOCX: %w", err)
	}

	var paragraphs []string
	for _, para := range wpTag.Split(string(docXML), -1) {
		runs := wtTag.FindAllStringSubmatch(para, -1)
		if len(runs) == 0 {
			continue
		}
		var b strings.Builder
		for _, run := range runs {
			b.WriteString(run[1])
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	full := strings.Join(paragraphs, "\n\n")

	meta := baseMetadata(path, "docx")
	meta.WordCount = utils.WordCount(full)
	if coreXML, err := readZipFile(&zr.Reader, docxCorePropsPath); err == nil {
		if m := dcTitleTag.FindSubmatch(coreXML); len(m) > 1 && len(m[1]) > 0 {
			meta.Title = string(m[1])
		}
		if m := dcCreatorTag.FindSubmatch(coreXML); len(m) > 1 {
			meta.Author = string(m[1])
		}
	}
	return &models.ParsedDocument{Text: full, Metadata: meta}, nil
}

// readZipFile returns the contents of name inside zr, or an error when the
// entry is missing or unreadable.
func readZipFile(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			_ = rc.Close()
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		_ = rc.Close()
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%s not found", name)
}
