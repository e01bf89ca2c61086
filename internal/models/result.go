package models

// SearchResult is a single ranked retrieval hit: a chunk and its cosine
// similarity against the query embedding.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}
