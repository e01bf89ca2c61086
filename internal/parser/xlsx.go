package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/bunseki/internal/models"
	"github.com/hyperjump/bunseki/pkg/utils"
)

// XlsxParser parses XLSX workbooks: every sheet's rows become lines of
// tab-joined cell values.
type XlsxParser struct{}

// Supports reports whether path has an .xlsx extension.
func (p *XlsxParser) Supports(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".xlsx"
}

// Parse extracts cell text from all sheets of an XLSX file.
func (p *XlsxParser) Parse(path string) (*models.ParsedDocument, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	var buf strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
			buf.WriteString(strings.Join(row, "\t"))
			buf.WriteByte('\n')
		}
	}
	full := strings.TrimSpace(buf.String())

	meta := baseMetadata(path, "xlsx")
	meta.WordCount = utils.WordCount(full)
	return &models.ParsedDocument{Text: full, Metadata: meta}, nil
}
