// Package main is the Bunseki CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/bunseki/internal/chunker"
	"github.com/hyperjump/bunseki/internal/config"
	"github.com/hyperjump/bunseki/internal/embedding"
	"github.com/hyperjump/bunseki/internal/index"
	"github.com/hyperjump/bunseki/internal/parser"
	"github.com/hyperjump/bunseki/internal/pipeline"
	"github.com/hyperjump/bunseki/internal/server"
	"github.com/hyperjump/bunseki/internal/summarize"
	"github.com/hyperjump/bunseki/internal/watcher"
	"github.com/hyperjump/bunseki/pkg/utils"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	// A .env next to the binary may carry COHERE_API_KEY.
	_ = godotenv.Load()

	command := os.Args[1]
	switch command {
	case "serve":
		runServe()
	case "server":
		runServer()
	case "extract":
		runTool("extract")
	case "chunk":
		runTool("chunk")
	case "search":
		runSearch()
	case "summarize":
		runTool("summarize")
	case "metadata":
		runTool("metadata")
	case "version", "--version", "-v":
		fmt.Printf("bunseki version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`bunseki - document chunking and semantic retrieval

Usage:
  bunseki serve     [flags]              Run the stdio JSON-RPC tool server
  bunseki server    [flags]              Run the HTTP API server (with directory watching)
  bunseki extract   [flags] <file>       Extract text from a document
  bunseki chunk     [flags] <file>       Chunk a document
  bunseki search    [flags] <query...>   Search previously indexed chunks (server mode only persists per process)
  bunseki summarize [flags] <file>       Summarize a document
  bunseki metadata  [flags] <file>       Show document metadata
  bunseki version                        Print version

Flags common to all commands:
  -config <path>   config file (default: ./config.yaml when present)
  -debug           enable debug logging
`)
}

// loadConfig loads the config file at path, or falls back to built-in
// defaults when no path is given and ./config.yaml does not exist.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if cwd, err := os.Getwd(); err == nil {
		fallback := filepath.Join(cwd, "config.yaml")
		if _, statErr := os.Stat(fallback); statErr == nil {
			return config.Load(fallback)
		}
	}
	return config.Default(), nil
}

// newEmbedder builds the configured embedder. The cohere provider requires
// COHERE_API_KEY and is wrapped in an LRU cache; the mock provider is for
// offline use and tests.
func newEmbedder(cfg *config.Config) (embedding.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "mock":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimensions), nil
	case "cohere":
		apiKey := os.Getenv("COHERE_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("COHERE_API_KEY is not set (use provider: mock for offline mode)")
		}
		client, err := embedding.NewCohereClient(embedding.CohereConfig{
			APIKey:     apiKey,
			Model:      cfg.Embedding.Model,
			ChatModel:  cfg.Summarize.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
		if err != nil {
			return nil, err
		}
		return embedding.NewCachedEmbedder(client, cfg.Embedding.CacheSize), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", cfg.Embedding.Provider)
	}
}

// generatorFrom returns the summarize generator behind an embedder, if the
// provider has one. The cached embedder unwraps to the Cohere client.
func generatorFrom(e embedding.Embedder) summarize.Generator {
	switch v := e.(type) {
	case *embedding.CachedEmbedder:
		return generatorFrom(v.Inner())
	case summarize.Generator:
		return v
	default:
		return nil
	}
}

type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	embedder embedding.Embedder
	pipeline *pipeline.Pipeline
}

func newApp(configPath string, debug bool) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	debugMode := cfg.Debug || debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	opts := []pipeline.Option{pipeline.WithLogger(logger)}
	if gen := generatorFrom(embedder); gen != nil {
		opts = append(opts, pipeline.WithGenerator(gen))
	}
	p := pipeline.New(
		parser.NewRegistry(),
		index.New(embedder),
		chunker.Options{
			Size:      cfg.Chunking.Size,
			Overlap:   cfg.Chunking.Overlap,
			Separator: cfg.Chunking.Separator,
		},
		opts...,
	)
	return &app{cfg: cfg, logger: logger, embedder: embedder, pipeline: p}, nil
}

func (a *app) close() {
	_ = a.embedder.Close()
	_ = a.logger.Sync()
}

func commonFlags(fs *flag.FlagSet) (configPath *string, debug *bool) {
	configPath = fs.String("config", "", "config file path")
	debug = fs.Bool("debug", false, "enable debug logging")
	return
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath, debug := commonFlags(fs)
	_ = fs.Parse(os.Args[2:])

	a, err := newApp(*configPath, *debug)
	if err != nil {
		fatal(err)
	}
	defer a.close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rpc := server.NewRPCServer(a.pipeline, a.logger, os.Stdin, os.Stdout)
	if err := rpc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		a.logger.Fatal("RPC server failed", zap.Error(err))
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath, debug := commonFlags(fs)
	_ = fs.Parse(os.Args[2:])

	a, err := newApp(*configPath, *debug)
	if err != nil {
		fatal(err)
	}
	defer a.close()
	logger := a.logger

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	var watch *watcher.Watcher
	if len(a.cfg.Watch.Directories) > 0 {
		watch = watcher.New(
			a.cfg.Watch.Directories,
			a.cfg.Watch.Extensions,
			func(path string) {
				if _, _, err := a.pipeline.IndexFile(context.Background(), path); err != nil {
					logger.Warn("watch index failed", zap.String("path", path), zap.Error(err))
				}
			},
			func(path string) {
				a.pipeline.RemoveFile(path)
			},
			watcher.WithLogger(logger),
		)
		if err := watch.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		watch.SyncExistingFiles()
	}

	srv := server.NewHTTPServer(a.pipeline, &a.cfg.Server, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if watch != nil {
		watch.Stop()
	}
	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	_ = srv.Stop(ctx)
}

// runTool executes a one-shot pipeline operation against a local file and
// prints the JSON result.
func runTool(name string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	configPath, debug := commonFlags(fs)
	chunkSize := fs.Int("size", 0, "chunk size in characters (chunk only)")
	overlap := fs.Int("overlap", 0, "chunk overlap in characters (chunk only)")
	detail := fs.String("detail", "", "summary detail level: brief, standard, detailed (summarize only)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: bunseki %s [flags] <file>\n", name)
		os.Exit(1)
	}
	path := fs.Arg(0)

	a, err := newApp(*configPath, *debug)
	if err != nil {
		fatal(err)
	}
	defer a.close()

	ctx := context.Background()
	var result interface{}
	switch name {
	case "extract":
		result, err = a.pipeline.ExtractText(path)
	case "chunk":
		result, err = a.pipeline.ChunkDocument(ctx, path, *chunkSize, *overlap, false)
	case "summarize":
		result, err = a.pipeline.SummarizeDocument(ctx, path, *detail)
	case "metadata":
		result, err = a.pipeline.GetMetadata(path)
	}
	if err != nil {
		fatal(err)
	}
	printJSON(result)
}

// runSearch indexes nothing by itself; it chunks and indexes the files given
// with -file flags, then runs the query against them.
func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath, debug := commonFlags(fs)
	topK := fs.Int("top-k", 0, "number of results (default 5)")
	var files multiFlag
	fs.Var(&files, "file", "document to index before searching (repeatable)")
	_ = fs.Parse(os.Args[2:])

	query := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "Usage: bunseki search [flags] <query...>")
		os.Exit(1)
	}

	a, err := newApp(*configPath, *debug)
	if err != nil {
		fatal(err)
	}
	defer a.close()

	ctx := context.Background()
	for _, f := range files {
		if _, _, err := a.pipeline.IndexFile(ctx, f); err != nil {
			fatal(fmt.Errorf("index %s: %w", f, err))
		}
	}
	result, err := a.pipeline.SearchChunks(ctx, query, "", *topK)
	if err != nil {
		fatal(err)
	}
	printJSON(result)
}

type multiFlag []string

func (m *multiFlag) String() string { return strings.Join(*m, ",") }

func (m *multiFlag) Set(v string) error {
	*m = append(*m, v)
	return nil
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(out))
}
