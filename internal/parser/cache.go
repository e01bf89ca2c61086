package parser

import (
	"sync"

	"github.com/hyperjump/bunseki/internal/models"
)

// Cache memoizes parsed documents by document ID. It is unbounded by policy:
// entries live until Clear or process end, so re-chunking or summarizing the
// same file never re-parses it.
type Cache struct {
	mu   sync.RWMutex
	docs map[string]*models.ParsedDocument
}

// NewCache returns an empty parse cache.
func NewCache() *Cache {
	return &Cache{docs: make(map[string]*models.ParsedDocument)}
}

// Get returns the cached document for docID if present.
func (c *Cache) Get(docID string) (*models.ParsedDocument, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[docID]
	return doc, ok
}

// Set stores doc under docID.
func (c *Cache) Set(docID string, doc *models.ParsedDocument) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[docID] = doc
}

// Clear drops all cached documents.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = make(map[string]*models.ParsedDocument)
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}
