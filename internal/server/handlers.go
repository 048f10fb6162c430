package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/hyperjump/eiga/internal/models"
	"github.com/hyperjump/eiga/internal/respond"
)

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}
	s.logger.Debug("parse request", zap.String("text", req.Text))
	s.respondJSON(w, http.StatusOK, s.engine.Parse(req.Text))
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("execute request", zap.String("text", req.Text), zap.Int("limit", req.Limit))
	resp, err := s.engine.Execute(r.Context(), req)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req models.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("answer request", zap.String("text", req.Text), zap.Int("limit", req.Limit))
	resp, err := s.engine.Ask(r.Context(), req)
	if err != nil {
		s.respondPipelineError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if s.ingestor == nil {
		s.respondError(w, http.StatusNotImplemented, "ingestion not enabled")
		return
	}
	dir := s.config.Data.Directory
	if dir == "" {
		s.respondError(w, http.StatusBadRequest, "no data directory configured")
		return
	}
	s.logger.Info("ingest requested", zap.String("dir", dir))
	summary, err := s.ingestor.Run(r.Context(), dir)
	if err != nil {
		s.logger.Error("ingest failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, summary)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.logger.Error("status: catalog stats failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"catalog": stats,
	}
	if s.titles != nil {
		if count, err := s.titles.DocCount(); err == nil {
			resp["indexed_titles"] = count
		}
	}
	resp["config"] = map[string]interface{}{
		"database_path":    s.config.Storage.DatabasePath,
		"title_index_path": s.config.Storage.TitleIndexPath,
		"data_directory":   s.config.Data.Directory,
		"watch":            s.config.Data.Watch,
		"default_limit":    s.config.Pipeline.DefaultLimit,
		"display_cap":      s.config.Pipeline.DisplayCap,
		"quality_floor":    s.config.Pipeline.QualityFloor,
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondPipelineError maps pipeline failures to HTTP statuses: structural
// and validation problems are the caller's fault, everything else is ours.
func (s *Server) respondPipelineError(w http.ResponseWriter, err error) {
	if _, ok := err.(*respond.StructuralError); ok {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err.Error() == "text cannot be empty" {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.logger.Error("pipeline failed", zap.Error(err))
	s.respondError(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
