package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/bunseki/internal/chunker"
	"github.com/hyperjump/bunseki/internal/models"
	"github.com/hyperjump/bunseki/internal/parser"
)

type extractRequest struct {
	FilePath string `json:"file_path"`
}

type chunkRequest struct {
	FilePath    string `json:"file_path"`
	ChunkSize   int    `json:"chunk_size"`
	Overlap     int    `json:"overlap"`
	IndexChunks *bool  `json:"index_chunks"`
}

type searchRequest struct {
	Query string `json:"query"`
	DocID string `json:"doc_id"`
	TopK  int    `json:"top_k"`
}

type summarizeRequest struct {
	FilePath    string `json:"file_path"`
	DetailLevel string `json:"detail_level"`
}

func (s *HTTPServer) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FilePath == "" {
		s.respondError(w, http.StatusBadRequest, "file_path is required")
		return
	}
	result, err := s.pipeline.ExtractText(req.FilePath)
	if err != nil {
		s.logger.Error("extract failed", zap.String("path", req.FilePath), zap.Error(err))
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleChunk(w http.ResponseWriter, r *http.Request) {
	var req chunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FilePath == "" {
		s.respondError(w, http.StatusBadRequest, "file_path is required")
		return
	}
	indexChunks := true
	if req.IndexChunks != nil {
		indexChunks = *req.IndexChunks
	}
	s.logger.Debug("chunk request",
		zap.String("path", req.FilePath),
		zap.Int("chunk_size", req.ChunkSize),
		zap.Int("overlap", req.Overlap),
	)
	result, err := s.pipeline.ChunkDocument(r.Context(), req.FilePath, req.ChunkSize, req.Overlap, indexChunks)
	if err != nil {
		s.logger.Error("chunking failed", zap.String("path", req.FilePath), zap.Error(err))
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	s.logger.Debug("search request", zap.String("query", req.Query), zap.Int("top_k", req.TopK))
	result, err := s.pipeline.SearchChunks(r.Context(), req.Query, req.DocID, req.TopK)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FilePath == "" {
		s.respondError(w, http.StatusBadRequest, "file_path is required")
		return
	}
	result, err := s.pipeline.SummarizeDocument(r.Context(), req.FilePath, req.DetailLevel)
	if err != nil {
		s.logger.Error("summarize failed", zap.String("path", req.FilePath), zap.Error(err))
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleMetadata(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FilePath == "" {
		s.respondError(w, http.StatusBadRequest, "file_path is required")
		return
	}
	result, err := s.pipeline.GetMetadata(req.FilePath)
	if err != nil {
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleIndexText(w http.ResponseWriter, r *http.Request) {
	var input models.DocumentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if input.Text == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	id, count, err := s.pipeline.IndexText(r.Context(), input)
	if err != nil {
		s.logger.Error("indexing failed", zap.Error(err))
		s.respondError(w, statusFor(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"doc_id": id,
		"chunks": count,
		"status": "indexed",
	})
}

func (s *HTTPServer) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := s.pipeline.ListDocuments()
	if docs == nil {
		docs = []models.DocumentInfo{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"documents":    docs,
		"total_chunks": s.pipeline.TotalChunks(),
	})
}

func (s *HTTPServer) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete document request", zap.String("id", id))
	s.pipeline.RemoveDocument(id)
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "ok",
		"total_chunks":    s.pipeline.TotalChunks(),
		"supported_types": s.pipeline.SupportedTypes(),
	})
}

// statusFor maps pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, parser.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, parser.ErrUnsupportedFormat), errors.Is(err, chunker.ErrInvalidArgument):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *HTTPServer) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
