package embedding

import (
	"context"
	"math"
	"testing"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	e := NewMockEmbedder(64)
	ctx := context.Background()
	a, err := e.Embed(ctx, []string{"hello"}, ModeDocument)
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed(ctx, []string{"hello"}, ModeDocument)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a[0] {
		if a[0][i] != b[0][i] {
			t.Fatal("same text and mode should produce identical vectors")
		}
	}
}

func TestMockEmbedder_ModeAsymmetry(t *testing.T) {
	e := NewMockEmbedder(64)
	ctx := context.Background()
	doc, _ := e.Embed(ctx, []string{"hello"}, ModeDocument)
	query, _ := e.Embed(ctx, []string{"hello"}, ModeQuery)
	same := true
	for i := range doc[0] {
		if doc[0][i] != query[0][i] {
			same = false
			break
		}
	}
	if same {
		t.Error("document and query modes should produce different vectors")
	}
}

func TestMockEmbedder_UnitLength(t *testing.T) {
	e := NewMockEmbedder(128)
	vecs, err := e.Embed(context.Background(), []string{"some text"}, ModeDocument)
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, v := range vecs[0] {
		sum += float64(v) * float64(v)
	}
	if math.Abs(math.Sqrt(sum)-1.0) > 1e-4 {
		t.Errorf("expected unit vector, norm=%f", math.Sqrt(sum))
	}
}

func TestMockEmbedder_EmptyInputFails(t *testing.T) {
	e := NewMockEmbedder(8)
	if _, err := e.Embed(context.Background(), nil, ModeQuery); err == nil {
		t.Error("empty input should fail")
	}
}

func TestMockEmbedder_BatchOrder(t *testing.T) {
	e := NewMockEmbedder(32)
	ctx := context.Background()
	batch, err := e.Embed(ctx, []string{"a", "b"}, ModeDocument)
	if err != nil {
		t.Fatal(err)
	}
	single, _ := e.Embed(ctx, []string{"b"}, ModeDocument)
	for i := range single[0] {
		if batch[1][i] != single[0][i] {
			t.Fatal("batch embedding should match per-text embedding in order")
		}
	}
}
