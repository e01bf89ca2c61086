// Package embedding provides text embedding via the Cohere API and caching.
package embedding

import "context"

// Mode selects the embedding transform. Document and query embeddings live in
// different but comparable vector spaces, so stored content and search
// queries must be embedded with different modes.
type Mode string

const (
	// ModeDocument embeds texts for storage in the index.
	ModeDocument Mode = "search_document"
	// ModeQuery embeds search query texts.
	ModeQuery Mode = "search_query"
)

// Embedder produces vector embeddings for text. Given N inputs it returns N
// equal-length vectors in input order, or an error; it never silently
// returns zero vectors.
type Embedder interface {
	Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error)
	Dimensions() int
	Close() error
}
