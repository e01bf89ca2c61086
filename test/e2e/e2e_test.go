package e2e

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/hyperjump/bunseki/internal/chunker"
	"github.com/hyperjump/bunseki/internal/embedding"
	"github.com/hyperjump/bunseki/internal/index"
	"github.com/hyperjump/bunseki/internal/parser"
	"github.com/hyperjump/bunseki/internal/pipeline"
	"github.com/hyperjump/bunseki/internal/server"
)

const e2eDimensions = 32

func newPipeline(t *testing.T) *pipeline.Pipeline {
	t.Helper()
	ix := index.New(embedding.NewMockEmbedder(e2eDimensions))
	return pipeline.New(parser.NewRegistry(), ix, chunker.Options{Size: 120, Overlap: 20})
}

func writeCorpus(t *testing.T) (dir string, paths map[string]string) {
	t.Helper()
	dir = t.TempDir()
	docs := map[string]string{
		"go.txt": "Go is a statically typed compiled language. " +
			"It is known for goroutines and channels. " +
			"The standard library covers networking and text processing.",
		"cooking.txt": "Simmer the onions until translucent. " +
			"Add garlic and tomatoes and reduce the sauce. " +
			"Season with basil before serving the pasta.",
		"space.txt": "The telescope observed a distant galaxy cluster. " +
			"Gravitational lensing magnified several background objects. " +
			"Spectroscopy revealed the redshift of each source.",
	}
	paths = make(map[string]string, len(docs))
	for name, content := range docs {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		paths[name] = path
	}
	return dir, paths
}

func TestE2E_FullPipeline(t *testing.T) {
	p := newPipeline(t)
	_, paths := writeCorpus(t)
	ctx := context.Background()

	// Extract each file, then chunk and index it.
	var totalChunks int
	for name, path := range paths {
		ext, err := p.ExtractText(path)
		if err != nil {
			t.Fatalf("extract %s: %v", name, err)
		}
		if ext.WordCount == 0 {
			t.Fatalf("extract %s: empty", name)
		}
		res, err := p.ChunkDocument(ctx, path, 0, 0, true)
		if err != nil {
			t.Fatalf("chunk %s: %v", name, err)
		}
		if res.TotalChunks == 0 {
			t.Fatalf("chunk %s: no chunks", name)
		}
		totalChunks += res.TotalChunks
	}
	if p.TotalChunks() != totalChunks {
		t.Fatalf("index holds %d chunks, indexed %d", p.TotalChunks(), totalChunks)
	}

	goDoc, err := p.ChunkDocument(ctx, paths["go.txt"], 0, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	search, err := p.SearchChunks(ctx, "Go is a statically typed compiled language.", "", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(search.Results) == 0 {
		t.Fatal("no search results")
	}
	if search.TotalIndexed != totalChunks {
		t.Errorf("total_indexed=%d, want %d", search.TotalIndexed, totalChunks)
	}

	// Scoped search only returns chunks of the requested document.
	scoped, err := p.SearchChunks(ctx, "anything", goDoc.DocID, 10)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range scoped.Results {
		if r.DocID != goDoc.DocID {
			t.Errorf("scoped search leaked doc %s", r.DocID)
		}
	}

	// Summaries fall back to extractive without a generator.
	sum, err := p.SummarizeDocument(ctx, paths["cooking.txt"], "brief")
	if err != nil {
		t.Fatal(err)
	}
	if sum.Summary == "" || sum.DetailLevel != "brief" {
		t.Errorf("summary: %+v", sum)
	}

	// Metadata reflects the file.
	meta, err := p.GetMetadata(paths["space.txt"])
	if err != nil {
		t.Fatal(err)
	}
	if meta.Title != "space" || meta.FileType != "txt" {
		t.Errorf("metadata: %+v", meta)
	}

	// Removing one document shrinks the index by its chunk count.
	goIndexed, err := p.ChunkDocument(ctx, paths["go.txt"], 0, 0, false)
	if err != nil {
		t.Fatal(err)
	}
	p.RemoveFile(paths["go.txt"])
	if p.TotalChunks() != totalChunks-goIndexed.TotalChunks {
		t.Errorf("after removal: %d chunks", p.TotalChunks())
	}
}

func TestE2E_RPCRoundTrip(t *testing.T) {
	_, paths := writeCorpus(t)

	var lines []string
	lines = append(lines, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	id := 2
	for _, name := range []string{"go.txt", "cooking.txt", "space.txt"} {
		args, _ := json.Marshal(map[string]string{"file_path": paths[name]})
		lines = append(lines, fmt.Sprintf(
			`{"jsonrpc":"2.0","id":%d,"method":"tools/call","params":{"name":"chunk_document","arguments":%s}}`, id, args))
		id++
	}
	lines = append(lines, fmt.Sprintf(
		`{"jsonrpc":"2.0","id":%d,"method":"tools/call","params":{"name":"search_chunks","arguments":{"query":"goroutines and channels","top_k":3}}}`, id))

	p := newPipeline(t)
	var out bytes.Buffer
	rpc := server.NewRPCServer(p, zap.NewNop(), strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	if err := rpc.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	type response struct {
		ID     json.RawMessage `json:"id"`
		Result struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	var responses []response
	scanner := bufio.NewScanner(&out)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		var r response
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			t.Fatalf("bad response line: %v", err)
		}
		responses = append(responses, r)
	}
	if len(responses) != len(lines) {
		t.Fatalf("got %d responses for %d requests", len(responses), len(lines))
	}
	for i, r := range responses {
		if r.Error != nil {
			t.Fatalf("response %d failed: %s", i, r.Error.Message)
		}
	}

	last := responses[len(responses)-1]
	var search struct {
		Results []struct {
			DocID string  `json:"doc_id"`
			Score float64 `json:"score"`
			Text  string  `json:"text"`
		} `json:"results"`
		TotalIndexed int `json:"total_indexed"`
	}
	if err := json.Unmarshal([]byte(last.Result.Content[0].Text), &search); err != nil {
		t.Fatal(err)
	}
	if search.TotalIndexed == 0 {
		t.Fatal("nothing indexed over RPC")
	}
	if len(search.Results) == 0 || len(search.Results) > 3 {
		t.Fatalf("results: %d", len(search.Results))
	}
	for i := 1; i < len(search.Results); i++ {
		if search.Results[i].Score > search.Results[i-1].Score {
			t.Errorf("results not sorted by score at %d", i)
		}
	}
}
