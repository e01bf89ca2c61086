package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL   = "https://api.cohere.com"
	defaultModel     = "embed-english-v3.0"
	defaultChatModel = "command-r-plus"
	defaultTimeout   = 30 * time.Second
)

// CohereConfig configures the Cohere API client.
type CohereConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	ChatModel  string
	Dimensions int
	Timeout    time.Duration
}

// CohereClient talks to the Cohere API. It implements Embedder (embed v3 with
// asymmetric input types) and the summarize.Generator contract (chat).
type CohereClient struct {
	apiKey     string
	baseURL    string
	model      string
	chatModel  string
	dimensions int
	client     *http.Client
}

// NewCohereClient creates a Cohere client. APIKey is required; other fields
// fall back to defaults.
func NewCohereClient(cfg CohereConfig) (*CohereClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cohere: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = defaultChatModel
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = 1024
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &CohereClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		model:      cfg.Model,
		chatModel:  cfg.ChatModel,
		dimensions: cfg.Dimensions,
		client:     &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type embedRequest struct {
	Texts     []string `json:"texts"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed embeds texts with the given mode. Fails explicitly on empty input,
// transport errors, non-2xx responses, or a count mismatch in the reply.
func (c *CohereClient) Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("cohere embed: no texts given")
	}
	body, err := json.Marshal(embedRequest{Texts: texts, Model: c.model, InputType: string(mode)})
	if err != nil {
		return nil, fmt.Errorf("cohere embed: marshal request: %w", err)
	}
	var out embedResponse
	if err := c.post(ctx, "/v1/embed", body, &out); err != nil {
		return nil, fmt.Errorf("cohere embed: %w", err)
	}
	if len(out.Embeddings) != len(texts) {
		return nil, fmt.Errorf("cohere embed: got %d embeddings for %d texts", len(out.Embeddings), len(texts))
	}
	for i, emb := range out.Embeddings {
		if len(emb) == 0 {
			return nil, fmt.Errorf("cohere embed: empty embedding at position %d", i)
		}
	}
	return out.Embeddings, nil
}

type chatRequest struct {
	Message   string `json:"message"`
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Text string `json:"text"`
}

// Generate sends prompt to the chat endpoint and returns the generated text.
func (c *CohereClient) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, err := json.Marshal(chatRequest{Message: prompt, Model: c.chatModel, MaxTokens: maxTokens})
	if err != nil {
		return "", fmt.Errorf("cohere chat: marshal request: %w", err)
	}
	var out chatResponse
	if err := c.post(ctx, "/v1/chat", body, &out); err != nil {
		return "", fmt.Errorf("cohere chat: %w", err)
	}
	return out.Text, nil
}

func (c *CohereClient) post(ctx context.Context, path string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %s: %s", resp.Status, string(payload))
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Dimensions returns the embedding dimension of the configured model.
func (c *CohereClient) Dimensions() int {
	return c.dimensions
}

// Close is a no-op; the client holds no persistent connections beyond the
// http.Client's pool.
func (c *CohereClient) Close() error {
	return nil
}
