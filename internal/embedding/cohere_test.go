package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCohereClient_Embed(t *testing.T) {
	var gotInputType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		gotInputType = req.InputType
		resp := embedResponse{Embeddings: make([][]float32, len(req.Texts))}
		for i := range req.Texts {
			resp.Embeddings[i] = []float32{1, 0, 0}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c, err := NewCohereClient(CohereConfig{APIKey: "test", BaseURL: srv.URL, Dimensions: 3})
	if err != nil {
		t.Fatal(err)
	}
	vecs, err := c.Embed(context.Background(), []string{"a", "b"}, ModeQuery)
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	if gotInputType != "search_query" {
		t.Errorf("input_type=%q, want search_query", gotInputType)
	}
}

func TestCohereClient_EmbedEmptyInput(t *testing.T) {
	c, _ := NewCohereClient(CohereConfig{APIKey: "test"})
	if _, err := c.Embed(context.Background(), nil, ModeDocument); err == nil {
		t.Error("empty input should fail without a network call")
	}
}

func TestCohereClient_EmbedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, _ := NewCohereClient(CohereConfig{APIKey: "test", BaseURL: srv.URL})
	if _, err := c.Embed(context.Background(), []string{"a"}, ModeDocument); err == nil {
		t.Error("server error should propagate")
	}
}

func TestCohereClient_EmbedCountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{{1}}})
	}))
	defer srv.Close()

	c, _ := NewCohereClient(CohereConfig{APIKey: "test", BaseURL: srv.URL})
	if _, err := c.Embed(context.Background(), []string{"a", "b"}, ModeDocument); err == nil {
		t.Error("count mismatch should fail")
	}
}

func TestCohereClient_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(chatResponse{Text: "a summary"})
	}))
	defer srv.Close()

	c, _ := NewCohereClient(CohereConfig{APIKey: "test", BaseURL: srv.URL})
	text, err := c.Generate(context.Background(), "summarize this", 100)
	if err != nil {
		t.Fatal(err)
	}
	if text != "a summary" {
		t.Errorf("got %q", text)
	}
}

func TestNewCohereClient_RequiresKey(t *testing.T) {
	if _, err := NewCohereClient(CohereConfig{}); err == nil {
		t.Error("missing API key should fail")
	}
}
