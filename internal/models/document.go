// Package models defines core data structures for chunks, parsed documents, and search results.
package models

// Chunk is a bounded, trimmed slice of a document's text. It is the unit of
// embedding and retrieval. Offsets are rune positions into the untrimmed
// source text (page-local when the document was chunked page by page).
type Chunk struct {
	ID        string                 `json:"id"`
	DocID     string                 `json:"doc_id"`
	Text      string                 `json:"text"`
	Index     int                    `json:"index"`
	StartChar int                    `json:"start_char"`
	EndChar   int                    `json:"end_char"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Page returns the 1-based page number from metadata, or 0 when the chunk
// was not produced by page chunking.
func (c *Chunk) Page() int {
	if c.Metadata == nil {
		return 0
	}
	if p, ok := c.Metadata["page"].(int); ok {
		return p
	}
	return 0
}

// DocumentMetadata holds metadata extracted while parsing a document.
type DocumentMetadata struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Pages         int    `json:"pages"`
	WordCount     int    `json:"word_count"`
	FileType      string `json:"file_type"`
	FileSizeBytes int64  `json:"file_size_bytes"`
	FilePath      string `json:"file_path"`
}

// ParsedDocument is the result of parsing a document file. Pages is populated
// only by parsers that preserve page boundaries (PDF).
type ParsedDocument struct {
	Text     string           `json:"text"`
	Pages    []string         `json:"pages,omitempty"`
	Metadata DocumentMetadata `json:"metadata"`
}

// DocumentInput is a raw text document submitted for indexing (HTTP API).
// ID is optional; a fresh one is generated when empty.
type DocumentInput struct {
	ID   string `json:"id,omitempty"`
	Text string `json:"text"`
}

// DocumentInfo describes one indexed document: its ID and how many chunks it
// currently has in the index.
type DocumentInfo struct {
	DocID      string `json:"doc_id"`
	ChunkCount int    `json:"chunk_count"`
}
