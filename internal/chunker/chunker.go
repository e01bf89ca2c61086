// Package chunker splits document text into overlapping character windows
// suitable for embedding, preferring natural break points.
package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperjump/bunseki/internal/models"
)

// ErrInvalidArgument reports invalid chunking parameters. Checked with errors.Is.
var ErrInvalidArgument = errors.New("invalid chunking argument")

// Defaults used by callers that do not configure chunking explicitly.
const (
	DefaultSize      = 500
	DefaultOverlap   = 50
	DefaultSeparator = "\n"
)

// Options control the chunk window size and overlap (in characters) and the
// preferred break point. An empty Separator means DefaultSeparator.
type Options struct {
	Size      int
	Overlap   int
	Separator string
}

// Chunk splits text into overlapping windows of roughly opts.Size characters.
// When a window would end mid-text, the cut is snapped back to the last
// occurrence of the separator inside the window so chunks end at natural
// boundaries. Windows that are empty after trimming are dropped and do not
// consume an index. Offsets are rune positions in the untrimmed text.
//
// Returns ErrInvalidArgument when opts.Size is not positive, opts.Overlap is
// negative, or opts.Overlap >= opts.Size. Blank text yields no chunks and no
// error.
func Chunk(text, docID string, opts Options) ([]models.Chunk, error) {
	if opts.Size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidArgument, opts.Size)
	}
	if opts.Overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must be non-negative, got %d", ErrInvalidArgument, opts.Overlap)
	}
	if opts.Overlap >= opts.Size {
		return nil, fmt.Errorf("%w: overlap %d must be less than chunk size %d", ErrInvalidArgument, opts.Overlap, opts.Size)
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	sep := opts.Separator
	if sep == "" {
		sep = DefaultSeparator
	}
	runes := []rune(text)
	sepRunes := []rune(sep)
	n := len(runes)

	var chunks []models.Chunk
	start := 0
	index := 0
	for start < n {
		end := start + opts.Size
		if end < n {
			// Snap to the last separator strictly after start so the chunk
			// ends at a natural boundary instead of mid-unit.
			if at := lastSeparator(runes, sepRunes, start, end); at > start {
				end = at + len(sepRunes)
			}
		}
		sliceEnd := end
		if sliceEnd > n {
			sliceEnd = n
		}
		content := strings.TrimSpace(string(runes[start:sliceEnd]))
		if content != "" {
			chunks = append(chunks, models.Chunk{
				ID:        chunkID(docID, index, start),
				DocID:     docID,
				Text:      content,
				Index:     index,
				StartChar: start,
				EndChar:   end,
				Metadata: map[string]interface{}{
					"chunk_size": len([]rune(content)),
					"word_count": len(strings.Fields(content)),
				},
			})
			index++
		}
		next := end - opts.Overlap
		if next >= n {
			break
		}
		// Forced-progress guard: the overlap step must move the cursor
		// strictly forward. A separator snap can pull end close enough to
		// start that end - overlap lands at or before the current cursor
		// (a window that trimmed to empty emits nothing to advance past);
		// jump to the window end instead. end > start always, so the
		// cursor strictly advances every iteration.
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks, nil
}

// ChunkByPages chunks each page separately, tags every chunk with its 1-based
// page number, and re-indexes the combined result contiguously from 0. Blank
// pages are skipped. All returned chunks carry the outer docID.
func ChunkByPages(pages []string, docID string, opts Options) ([]models.Chunk, error) {
	var all []models.Chunk
	for pageNum, pageText := range pages {
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		pageChunks, err := Chunk(pageText, fmt.Sprintf("%s_p%d", docID, pageNum), opts)
		if err != nil {
			return nil, err
		}
		for i := range pageChunks {
			pageChunks[i].DocID = docID
			pageChunks[i].Metadata["page"] = pageNum + 1
		}
		all = append(all, pageChunks...)
	}
	for i := range all {
		all[i].Index = i
	}
	return all, nil
}

// lastSeparator returns the largest i in [start, end-len(sep)] at which sep
// occurs in runes, or -1 when there is none. The occurrence lies entirely
// within [start, end).
func lastSeparator(runes, sep []rune, start, end int) int {
	if len(sep) == 0 {
		return -1
	}
	for i := end - len(sep); i >= start; i-- {
		match := true
		for j := range sep {
			if runes[i+j] != sep[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// chunkID derives a stable chunk identifier from the owning document, the
// chunk's sequential index, and its start offset. The same inputs always
// produce the same ID.
func chunkID(docID string, index, start int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%d", docID, index, start)))
	return hex.EncodeToString(sum[:])[:12]
}
