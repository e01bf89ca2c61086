// Package pipeline wires parsing, chunking, indexing, retrieval, and
// summarization into the tool operations exposed by the servers.
package pipeline

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/bunseki/internal/chunker"
	"github.com/hyperjump/bunseki/internal/docid"
	"github.com/hyperjump/bunseki/internal/index"
	"github.com/hyperjump/bunseki/internal/models"
	"github.com/hyperjump/bunseki/internal/parser"
	"github.com/hyperjump/bunseki/internal/summarize"
	"github.com/hyperjump/bunseki/pkg/utils"
)

// previewChars is how much chunk text the chunk tool returns per chunk.
const previewChars = 200

// defaultTopK is the search result count when the caller does not set one.
const defaultTopK = 5

// Pipeline owns the parse cache, the vector index, and the collaborators
// needed to serve the document tools.
type Pipeline struct {
	registry  *parser.Registry
	cache     *parser.Cache
	index     *index.Index
	generator summarize.Generator // optional; nil forces extractive summaries
	chunking  chunker.Options
	logger    *zap.Logger // optional; when set, logs debug events
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// WithGenerator sets the remote text-generation capability for summaries.
func WithGenerator(g summarize.Generator) Option {
	return func(p *Pipeline) { p.generator = g }
}

// New creates a pipeline. chunking supplies the default chunk size, overlap,
// and separator for documents chunked without explicit parameters.
func New(registry *parser.Registry, ix *index.Index, chunking chunker.Options, opts ...Option) *Pipeline {
	p := &Pipeline{
		registry: registry,
		cache:    parser.NewCache(),
		index:    ix,
		chunking: chunking,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// pageOf returns a pointer to the chunk's 1-based page number, or nil so the
// JSON field serializes as null for chunks without one.
func pageOf(ch models.Chunk) *int {
	if p := ch.Page(); p > 0 {
		return &p
	}
	return nil
}

// getOrParse parses the file at path, memoizing the result by document ID.
func (p *Pipeline) getOrParse(path string) (string, *models.ParsedDocument, error) {
	id := docid.FromPath(path)
	if doc, ok := p.cache.Get(id); ok {
		return id, doc, nil
	}
	doc, err := p.registry.Parse(path)
	if err != nil {
		return "", nil, err
	}
	p.cache.Set(id, doc)
	return id, doc, nil
}

// ExtractResult is the extract tool's response shape.
type ExtractResult struct {
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
	Pages     int    `json:"pages"`
	FileType  string `json:"file_type"`
}

// ExtractText extracts the full text of the document at path.
func (p *Pipeline) ExtractText(path string) (*ExtractResult, error) {
	_, doc, err := p.getOrParse(path)
	if err != nil {
		return nil, err
	}
	return &ExtractResult{
		Text:      doc.Text,
		WordCount: doc.Metadata.WordCount,
		Pages:     doc.Metadata.Pages,
		FileType:  doc.Metadata.FileType,
	}, nil
}

// ChunkPreview is one chunk in the chunk tool's response: text truncated to
// previewChars with an ellipsis marker when longer. Page is null for chunks
// not produced by page chunking.
type ChunkPreview struct {
	ID        string `json:"id"`
	Index     int    `json:"index"`
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
	Page      *int   `json:"page"`
}

// ChunkResult is the chunk tool's response shape.
type ChunkResult struct {
	DocID       string         `json:"doc_id"`
	TotalChunks int            `json:"total_chunks"`
	Chunks      []ChunkPreview `json:"chunks"`
}

// ChunkDocument parses and chunks the document at path. Page-preserving
// formats are chunked page by page. Zero size or overlap take the configured
// defaults. When indexChunks is true the chunks are also embedded and added
// to the search index.
func (p *Pipeline) ChunkDocument(ctx context.Context, path string, size, overlap int, indexChunks bool) (*ChunkResult, error) {
	id, doc, err := p.getOrParse(path)
	if err != nil {
		return nil, err
	}
	opts := p.chunking
	if size != 0 {
		opts.Size = size
	}
	if overlap != 0 {
		opts.Overlap = overlap
	}
	var chunks []models.Chunk
	if len(doc.Pages) > 0 {
		chunks, err = chunker.ChunkByPages(doc.Pages, id, opts)
	} else {
		chunks, err = chunker.Chunk(doc.Text, id, opts)
	}
	if err != nil {
		return nil, err
	}
	if indexChunks {
		if _, err := p.index.Add(ctx, chunks); err != nil {
			return nil, err
		}
	}
	if p.logger != nil {
		p.logger.Debug("document chunked",
			zap.String("doc_id", id),
			zap.Int("chunks", len(chunks)),
			zap.Bool("indexed", indexChunks),
		)
	}
	previews := make([]ChunkPreview, len(chunks))
	for i, ch := range chunks {
		wordCount, _ := ch.Metadata["word_count"].(int)
		previews[i] = ChunkPreview{
			ID:        ch.ID,
			Index:     ch.Index,
			Text:      utils.Truncate(ch.Text, previewChars),
			WordCount: wordCount,
			Page:      pageOf(ch),
		}
	}
	return &ChunkResult{DocID: id, TotalChunks: len(chunks), Chunks: previews}, nil
}

// SearchHit is one ranked result in the search tool's response. Page is null
// for chunks not produced by page chunking.
type SearchHit struct {
	ChunkID string  `json:"chunk_id"`
	DocID   string  `json:"doc_id"`
	Score   float64 `json:"score"`
	Text    string  `json:"text"`
	Page    *int    `json:"page"`
}

// SearchResult is the search tool's response shape.
type SearchResult struct {
	Query        string      `json:"query"`
	Results      []SearchHit `json:"results"`
	TotalIndexed int         `json:"total_indexed"`
}

// SearchChunks runs a semantic search over indexed chunks, optionally scoped
// to one document. Scores are rounded to 4 decimals. A topK of 0 means
// defaultTopK.
func (p *Pipeline) SearchChunks(ctx context.Context, query, docID string, topK int) (*SearchResult, error) {
	if topK <= 0 {
		topK = defaultTopK
	}
	results, err := p.index.Search(ctx, query, docID, topK)
	if err != nil {
		return nil, err
	}
	hits := make([]SearchHit, len(results))
	for i, r := range results {
		hits[i] = SearchHit{
			ChunkID: r.Chunk.ID,
			DocID:   r.Chunk.DocID,
			Score:   utils.Round4(r.Score),
			Text:    r.Chunk.Text,
			Page:    pageOf(r.Chunk),
		}
	}
	return &SearchResult{Query: query, Results: hits, TotalIndexed: p.index.TotalChunks()}, nil
}

// SummaryResult is the summarize tool's response shape.
type SummaryResult struct {
	Summary         string `json:"summary"`
	DetailLevel     string `json:"detail_level"`
	SourceWordCount int    `json:"source_word_count"`
	FileType        string `json:"file_type"`
}

// SummarizeDocument summarizes the document at path. Remote generation
// failures are recovered with the extractive fallback; the tool always
// returns a usable summary.
func (p *Pipeline) SummarizeDocument(ctx context.Context, path, detailLevel string) (*SummaryResult, error) {
	_, doc, err := p.getOrParse(path)
	if err != nil {
		return nil, err
	}
	if detailLevel == "" {
		detailLevel = string(summarize.DetailBrief)
	}
	summary, fellBack := summarize.Summarize(ctx, p.generator, doc.Text, summarize.Detail(detailLevel))
	if fellBack && p.logger != nil {
		p.logger.Warn("summary generation failed, used extractive fallback",
			zap.String("path", path),
			zap.String("detail_level", detailLevel),
		)
	}
	return &SummaryResult{
		Summary:         summary,
		DetailLevel:     detailLevel,
		SourceWordCount: doc.Metadata.WordCount,
		FileType:        doc.Metadata.FileType,
	}, nil
}

// GetMetadata returns the parsed document's metadata.
func (p *Pipeline) GetMetadata(path string) (*models.DocumentMetadata, error) {
	_, doc, err := p.getOrParse(path)
	if err != nil {
		return nil, err
	}
	meta := doc.Metadata
	return &meta, nil
}

// IndexFile re-parses the file at path (bypassing the cache, so changed
// content is picked up), replaces any previously indexed chunks for it, and
// indexes the new chunks. Returns the document ID and chunk count.
func (p *Pipeline) IndexFile(ctx context.Context, path string) (string, int, error) {
	id := docid.FromPath(path)
	doc, err := p.registry.Parse(path)
	if err != nil {
		return "", 0, err
	}
	p.cache.Set(id, doc)

	var chunks []models.Chunk
	if len(doc.Pages) > 0 {
		chunks, err = chunker.ChunkByPages(doc.Pages, id, p.chunking)
	} else {
		chunks, err = chunker.Chunk(doc.Text, id, p.chunking)
	}
	if err != nil {
		return "", 0, err
	}
	p.index.RemoveDocument(id)
	count, err := p.index.Add(ctx, chunks)
	if err != nil {
		return "", 0, err
	}
	if p.logger != nil {
		p.logger.Debug("file indexed", zap.String("path", path), zap.String("doc_id", id), zap.Int("chunks", count))
	}
	return id, count, nil
}

// IndexText chunks and indexes a raw text document. A fresh ID is generated
// when input.ID is empty.
func (p *Pipeline) IndexText(ctx context.Context, input models.DocumentInput) (string, int, error) {
	id := input.ID
	if id == "" {
		id = uuid.New().String()
	}
	chunks, err := chunker.Chunk(input.Text, id, p.chunking)
	if err != nil {
		return "", 0, err
	}
	p.index.RemoveDocument(id)
	count, err := p.index.Add(ctx, chunks)
	if err != nil {
		return "", 0, err
	}
	return id, count, nil
}

// RemoveFile removes the chunks indexed for the file at path.
func (p *Pipeline) RemoveFile(path string) {
	p.RemoveDocument(docid.FromPath(path))
}

// RemoveDocument removes a document's chunks from the index. Unknown IDs are
// a no-op.
func (p *Pipeline) RemoveDocument(id string) {
	p.index.RemoveDocument(id)
	if p.logger != nil {
		p.logger.Debug("document removed", zap.String("doc_id", id))
	}
}

// ListDocuments returns all indexed documents with chunk counts.
func (p *Pipeline) ListDocuments() []models.DocumentInfo {
	return p.index.ListDocuments()
}

// TotalChunks returns the number of indexed chunks.
func (p *Pipeline) TotalChunks() int {
	return p.index.TotalChunks()
}

// SupportedTypes lists the file extensions the pipeline can parse.
func (p *Pipeline) SupportedTypes() []string {
	return p.registry.SupportedTypes()
}
