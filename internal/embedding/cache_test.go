package embedding

import (
	"context"
	"testing"
)

func TestEmbeddingCache_GetSet(t *testing.T) {
	c := NewEmbeddingCache(2)
	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss")
	}
	c.Set("a", []float32{1})
	if v, ok := c.Get("a"); !ok || v[0] != 1 {
		t.Error("expected hit for a")
	}
}

func TestEmbeddingCache_Eviction(t *testing.T) {
	c := NewEmbeddingCache(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})
	c.Get("a") // refresh a, making b the eviction candidate
	c.Set("c", []float32{3})
	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Error("a should still be cached")
	}
}

// countingEmbedder records how many texts were sent to the inner embedder.
type countingEmbedder struct {
	*MockEmbedder
	sent int
}

func (c *countingEmbedder) Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error) {
	c.sent += len(texts)
	return c.MockEmbedder.Embed(ctx, texts, mode)
}

func TestCachedEmbedder_SkipsHits(t *testing.T) {
	inner := &countingEmbedder{MockEmbedder: NewMockEmbedder(16)}
	e := NewCachedEmbedder(inner, 100)
	ctx := context.Background()

	if _, err := e.Embed(ctx, []string{"x", "y"}, ModeDocument); err != nil {
		t.Fatal(err)
	}
	if inner.sent != 2 {
		t.Fatalf("expected 2 texts sent, got %d", inner.sent)
	}
	out, err := e.Embed(ctx, []string{"x", "z"}, ModeDocument)
	if err != nil {
		t.Fatal(err)
	}
	if inner.sent != 3 {
		t.Errorf("only the miss should be embedded, sent=%d", inner.sent)
	}
	want, _ := inner.MockEmbedder.Embed(ctx, []string{"x"}, ModeDocument)
	for i := range want[0] {
		if out[0][i] != want[0][i] {
			t.Fatal("cached result should match direct embedding")
		}
	}
}

func TestCachedEmbedder_ModeSeparation(t *testing.T) {
	e := NewCachedEmbedder(NewMockEmbedder(16), 100)
	ctx := context.Background()
	doc, _ := e.Embed(ctx, []string{"q"}, ModeDocument)
	query, _ := e.Embed(ctx, []string{"q"}, ModeQuery)
	same := true
	for i := range doc[0] {
		if doc[0][i] != query[0][i] {
			same = false
			break
		}
	}
	if same {
		t.Error("cache must not conflate modes for the same text")
	}
}
