// Package server exposes the document pipeline over two transports: a
// line-delimited JSON-RPC loop on stdio and an HTTP API.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/bunseki/internal/pipeline"
)

// rpcInternalError is the JSON-RPC code used for all tool failures.
const rpcInternalError = -32603

// RPCServer serves tool calls as line-delimited JSON-RPC 2.0 over a reader
// and writer pair (stdio in production).
type RPCServer struct {
	pipeline *pipeline.Pipeline
	logger   *zap.Logger
	in       io.Reader
	out      io.Writer
}

// NewRPCServer creates an RPC server reading requests from in and writing
// one JSON response per line to out.
func NewRPCServer(p *pipeline.Pipeline, logger *zap.Logger, in io.Reader, out io.Writer) *RPCServer {
	return &RPCServer{pipeline: p, logger: logger, in: in, out: out}
}

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  rpcParams       `json:"params"`
}

type rpcParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Run processes requests until in is exhausted or ctx is cancelled.
// Cancellation is observed at request boundaries: a read blocked in the
// scanner returns only when in closes, which is how a stdio server shuts
// down anyway (the parent closes the pipe or the process gets a signal).
func (s *RPCServer) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	enc := json.NewEncoder(s.out)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		resp := s.handle(ctx, []byte(line))
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	return scanner.Err()
}

func (s *RPCServer) handle(ctx context.Context, line []byte) rpcResponse {
	var req rpcRequest
	if err := json.Unmarshal(line, &req); err != nil {
		return rpcResponse{
			JSONRPC: "2.0",
			Error:   &rpcError{Code: rpcInternalError, Message: "invalid request: " + err.Error()},
		}
	}
	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
	switch req.Method {
	case "tools/list":
		resp.Result = map[string]interface{}{"tools": toolDefinitions()}
	case "tools/call":
		result, err := s.callTool(ctx, req.Params.Name, req.Params.Arguments)
		if err != nil {
			if s.logger != nil {
				s.logger.Error("tool call failed", zap.String("tool", req.Params.Name), zap.Error(err))
			}
			resp.Error = &rpcError{Code: rpcInternalError, Message: err.Error()}
			break
		}
		body, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			resp.Error = &rpcError{Code: rpcInternalError, Message: err.Error()}
			break
		}
		resp.Result = map[string]interface{}{
			"content": []map[string]interface{}{{"type": "text", "text": string(body)}},
		}
	default:
		resp.Result = map[string]interface{}{}
	}
	return resp
}

type extractArgs struct {
	FilePath string `json:"file_path"`
}

type chunkArgs struct {
	FilePath    string `json:"file_path"`
	ChunkSize   int    `json:"chunk_size"`
	Overlap     int    `json:"overlap"`
	IndexChunks *bool  `json:"index_chunks"`
}

type searchArgs struct {
	Query string `json:"query"`
	DocID string `json:"doc_id"`
	TopK  int    `json:"top_k"`
}

type summarizeArgs struct {
	FilePath    string `json:"file_path"`
	DetailLevel string `json:"detail_level"`
}

// callTool routes a tools/call request by name. Argument shapes are the
// compatibility surface and must stay stable.
func (s *RPCServer) callTool(ctx context.Context, name string, raw json.RawMessage) (interface{}, error) {
	if raw == nil {
		raw = json.RawMessage("{}")
	}
	switch name {
	case "extract_text":
		var args extractArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return s.pipeline.ExtractText(args.FilePath)
	case "chunk_document":
		var args chunkArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		indexChunks := true
		if args.IndexChunks != nil {
			indexChunks = *args.IndexChunks
		}
		return s.pipeline.ChunkDocument(ctx, args.FilePath, args.ChunkSize, args.Overlap, indexChunks)
	case "search_chunks":
		var args searchArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return s.pipeline.SearchChunks(ctx, args.Query, args.DocID, args.TopK)
	case "summarize_document":
		var args summarizeArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return s.pipeline.SummarizeDocument(ctx, args.FilePath, args.DetailLevel)
	case "get_metadata":
		var args extractArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		return s.pipeline.GetMetadata(args.FilePath)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}
