// Package index provides an in-memory vector index over document chunks with
// cosine-similarity ranked retrieval.
package index

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/hyperjump/bunseki/internal/embedding"
	"github.com/hyperjump/bunseki/internal/models"
)

// ErrEmbedding reports a failed or unreachable embedding call. Add and Search
// abort with no index mutation when it occurs.
var ErrEmbedding = errors.New("embedding failed")

// Index holds embedded chunks in memory and serves ranked nearest-neighbor
// queries, optionally scoped to one document. Chunks, vectors, and per-document
// chunk lists are kept consistent under one lock; Add and RemoveDocument are
// atomic from a reader's perspective.
type Index struct {
	embedder embedding.Embedder

	mu        sync.RWMutex
	chunks    map[string]models.Chunk
	vectors   map[string][]float32
	docChunks map[string][]string
	docOrder  []string // document IDs in first-seen order
	order     []string // chunk IDs in insertion order; full-index scans and tie-breaks
}

// New creates an empty index backed by the given embedder.
func New(embedder embedding.Embedder) *Index {
	return &Index{
		embedder:  embedder,
		chunks:    make(map[string]models.Chunk),
		vectors:   make(map[string][]float32),
		docChunks: make(map[string][]string),
	}
}

// Add embeds all chunk texts in one batched document-mode call and registers
// each chunk with its vector. Returns the number of chunks added. Empty input
// returns 0 without calling the embedder. On embedding failure nothing is
// registered.
func (ix *Index) Add(ctx context.Context, chunks []models.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}
	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}
	vecs, err := ix.embedder.Embed(ctx, texts, embedding.ModeDocument)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for i, ch := range chunks {
		vec := make([]float32, len(vecs[i]))
		copy(vec, vecs[i])
		if _, exists := ix.chunks[ch.ID]; !exists {
			ix.order = append(ix.order, ch.ID)
		}
		ix.chunks[ch.ID] = ch
		ix.vectors[ch.ID] = vec
		if _, exists := ix.docChunks[ch.DocID]; !exists {
			ix.docOrder = append(ix.docOrder, ch.DocID)
		}
		ix.docChunks[ch.DocID] = append(ix.docChunks[ch.DocID], ch.ID)
	}
	return len(chunks), nil
}

// Search embeds query in query mode and returns up to topK chunks ranked by
// cosine similarity, highest first. When docID names a known document the
// candidate set is that document's chunks; an unknown docID falls back to the
// full index rather than erroring. Equal scores keep insertion order. A
// topK <= 0 returns all ranked candidates.
func (ix *Index) Search(ctx context.Context, query, docID string, topK int) ([]models.SearchResult, error) {
	vecs, err := ix.embedder.Embed(ctx, []string{query}, embedding.ModeQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	queryVec := vecs[0]

	ix.mu.RLock()
	defer ix.mu.RUnlock()
	candidates := ix.order
	if docID != "" {
		if ids, ok := ix.docChunks[docID]; ok {
			candidates = ids
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	results := make([]models.SearchResult, 0, len(candidates))
	for _, id := range candidates {
		vec, ok := ix.vectors[id]
		if !ok {
			continue
		}
		results = append(results, models.SearchResult{
			Chunk: ix.chunks[id],
			Score: Cosine(queryVec, vec),
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > 0 && topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// RemoveDocument removes every chunk and vector of docID and forgets the
// document. Unknown docID is a no-op.
func (ix *Index) RemoveDocument(docID string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ids, ok := ix.docChunks[docID]
	if !ok {
		return
	}
	removed := make(map[string]bool, len(ids))
	for _, id := range ids {
		delete(ix.chunks, id)
		delete(ix.vectors, id)
		removed[id] = true
	}
	delete(ix.docChunks, docID)

	kept := make([]string, 0, len(ix.order))
	for _, id := range ix.order {
		if !removed[id] {
			kept = append(kept, id)
		}
	}
	ix.order = kept

	docs := make([]string, 0, len(ix.docOrder))
	for _, d := range ix.docOrder {
		if d != docID {
			docs = append(docs, d)
		}
	}
	ix.docOrder = docs
}

// ListDocuments returns every indexed document with its chunk count, in
// first-seen order.
func (ix *Index) ListDocuments() []models.DocumentInfo {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]models.DocumentInfo, 0, len(ix.docOrder))
	for _, docID := range ix.docOrder {
		out = append(out, models.DocumentInfo{DocID: docID, ChunkCount: len(ix.docChunks[docID])})
	}
	return out
}

// TotalChunks returns the number of currently indexed chunks.
func (ix *Index) TotalChunks() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.chunks)
}

// Cosine returns the cosine similarity of a and b: their dot product divided
// by the product of their magnitudes. If either magnitude is zero the result
// is exactly 0, never NaN.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		normA += float64(v) * float64(v)
	}
	for _, v := range b {
		normB += float64(v) * float64(v)
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
