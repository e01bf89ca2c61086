package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8080 {
		t.Errorf("port=%d", cfg.Server.Port)
	}
	if cfg.Chunking.Size != 500 || cfg.Chunking.Overlap != 50 {
		t.Errorf("chunking defaults: %+v", cfg.Chunking)
	}
	if cfg.Chunking.Separator != "\n" {
		t.Errorf("separator=%q", cfg.Chunking.Separator)
	}
	if cfg.Embedding.Provider != "cohere" || cfg.Embedding.Dimensions != 1024 {
		t.Errorf("embedding defaults: %+v", cfg.Embedding)
	}
	if cfg.Summarize.Model != "command-r-plus" {
		t.Errorf("summarize model=%q", cfg.Summarize.Model)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  port: 9999
chunking:
  size: 300
embedding:
  provider: mock
  dimensions: 64
watch:
  directories:
    - ./docs
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true")
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port=%d", cfg.Server.Port)
	}
	if cfg.Chunking.Size != 300 {
		t.Errorf("size=%d", cfg.Chunking.Size)
	}
	// Unset values still get defaults.
	if cfg.Chunking.Overlap != 50 {
		t.Errorf("overlap default missing: %d", cfg.Chunking.Overlap)
	}
	if cfg.Embedding.Provider != "mock" {
		t.Errorf("provider=%q", cfg.Embedding.Provider)
	}
	want := filepath.Join(dir, "docs")
	if cfg.Watch.Directories[0] != want {
		t.Errorf("watch dir=%q, want %q", cfg.Watch.Directories[0], want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing config file should error")
	}
}
