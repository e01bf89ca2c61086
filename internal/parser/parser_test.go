package parser

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRegistry_PlainText(t *testing.T) {
	path := writeTempFile(t, "notes.txt", "Hello world\nLine two")
	doc, err := NewRegistry().Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text != "Hello world\nLine two" {
		t.Errorf("got %q", doc.Text)
	}
	if doc.Metadata.FileType != "txt" {
		t.Errorf("file type=%q", doc.Metadata.FileType)
	}
	if doc.Metadata.WordCount != 4 {
		t.Errorf("word count=%d", doc.Metadata.WordCount)
	}
	if doc.Metadata.Title != "notes" {
		t.Errorf("title=%q", doc.Metadata.Title)
	}
	if len(doc.Pages) != 0 {
		t.Errorf("plain text should not have pages")
	}
}

func TestRegistry_PlainTextInvalidUTF8(t *testing.T) {
	path := writeTempFile(t, "raw.log", "hello\x80world")
	doc, err := NewRegistry().Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text != "hello�world" {
		t.Errorf("got %q", doc.Text)
	}
}

func TestRegistry_NotFound(t *testing.T) {
	_, err := NewRegistry().Parse(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRegistry_UnsupportedFormat(t *testing.T) {
	path := writeTempFile(t, "image.png", "not really a png")
	_, err := NewRegistry().Parse(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

// writeDocx builds a minimal OOXML package with the given paragraphs and
// optional core properties.
func writeDocx(t *testing.T, path string, paragraphs []string, coreXML string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	body := `<?xml version="1.0"?><w:document><w:body>`
	for _, p := range paragraphs {
		body += `<w:p w:rsidR="000"><w:r><w:t xml:space="preserve">` + p + `</w:t></w:r></w:p>`
	}
	body += `</w:body></w:document>`
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatal(err)
	}
	if coreXML != "" {
		cw, err := zw.Create("docProps/core.xml")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := cw.Write([]byte(coreXML)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestRegistry_Docx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.docx")
	core := `<?xml version="1.0"?><cp:coreProperties><dc:title>Quarterly Report</dc:title><dc:creator>Jane Doe</dc:creator></cp:coreProperties>`
	writeDocx(t, path, []string{"First paragraph.", "Second paragraph."}, core)

	doc, err := NewRegistry().Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text != "First paragraph.\n\nSecond paragraph." {
		t.Errorf("got %q", doc.Text)
	}
	if doc.Metadata.Title != "Quarterly Report" {
		t.Errorf("title=%q", doc.Metadata.Title)
	}
	if doc.Metadata.Author != "Jane Doe" {
		t.Errorf("author=%q", doc.Metadata.Author)
	}
	if doc.Metadata.FileType != "docx" {
		t.Errorf("file type=%q", doc.Metadata.FileType)
	}
}

func TestRegistry_DocxWithoutCoreProps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.docx")
	writeDocx(t, path, []string{"Body text."}, "")

	doc, err := NewRegistry().Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Metadata.Title != "plain" {
		t.Errorf("title should fall back to file stem, got %q", doc.Metadata.Title)
	}
}

func TestRegistry_Xlsx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.xlsx")
	f := excelize.NewFile()
	f.SetCellValue("Sheet1", "A1", "Title")
	f.SetCellValue("Sheet1", "A2", "Value 1")
	f.SetCellValue("Sheet1", "B2", "Value 2")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	doc, err := NewRegistry().Parse(path)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text != "Title\nValue 1\tValue 2" {
		t.Errorf("got %q", doc.Text)
	}
	if doc.Metadata.FileType != "xlsx" {
		t.Errorf("file type=%q", doc.Metadata.FileType)
	}
}

func TestCache(t *testing.T) {
	c := NewCache()
	if _, ok := c.Get("d1"); ok {
		t.Error("expected miss")
	}
	doc, err := NewRegistry().Parse(writeTempFile(t, "a.txt", "content"))
	if err != nil {
		t.Fatal(err)
	}
	c.Set("d1", doc)
	if got, ok := c.Get("d1"); !ok || got.Text != "content" {
		t.Error("expected hit with same document")
	}
	if c.Len() != 1 {
		t.Errorf("Len=%d", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Error("Clear should empty the cache")
	}
}
