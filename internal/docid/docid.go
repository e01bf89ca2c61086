// Package docid derives stable document IDs from file paths.
package docid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

// FromPath returns a stable document ID for the given path. The path is
// made absolute first, so relative and absolute spellings of the same file
// yield the same ID and re-chunking replaces rather than duplicates its
// index entries.
func FromPath(path string) string {
	normalized := filepath.Clean(path)
	if abs, err := filepath.Abs(normalized); err == nil {
		normalized = abs
	}
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])[:16]
}
