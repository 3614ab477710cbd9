package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-optimizer/internal/db"
	"github.com/jonathan/resume-optimizer/internal/experience"
	"github.com/jonathan/resume-optimizer/internal/keywords"
	"github.com/jonathan/resume-optimizer/internal/pipeline"
	"github.com/jonathan/resume-optimizer/internal/types"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 2 << 20

// OptimizeRequest represents the request body for /optimize
type OptimizeRequest struct {
	Role           string          `json:"role"`
	JobDescription string          `json:"job_description,omitempty"`
	Format         string          `json:"format,omitempty"`
	Portfolio      json.RawMessage `json:"portfolio"`
}

// ScoreRequest represents the request body for /score
type ScoreRequest struct {
	Document       string `json:"document"`
	Role           string `json:"role,omitempty"`
	JobDescription string `json:"job_description,omitempty"`
}

// RunResponse represents the response for /runs/{id}
type RunResponse struct {
	Run    *db.Run          `json:"run"`
	Result *types.RunResult `json:"result,omitempty"`
}

// handleProfile returns the keyword profile for a role
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	role := r.PathValue("role")
	if strings.TrimSpace(role) == "" {
		s.errorResponse(w, http.StatusBadRequest, "role is required")
		return
	}
	profile := keywords.BuildProfileWithDescription(role, r.URL.Query().Get("job_description"))
	s.jsonResponse(w, http.StatusOK, profile)
}

// decodeOptimizeRequest reads and validates an optimize request, returning
// the loaded portfolio and the run options for it
func (s *Server) decodeOptimizeRequest(w http.ResponseWriter, r *http.Request) (*OptimizeRequest, *experience.Load, pipeline.Options, error) {
	opts := s.pipeline

	var req OptimizeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return nil, nil, opts, &ErrValidation{Field: "body", Message: "invalid request body: " + err.Error()}
	}
	if strings.TrimSpace(req.Role) == "" {
		return nil, nil, opts, &ErrValidation{Field: "role", Message: "role is required"}
	}
	if len(req.Portfolio) == 0 || string(req.Portfolio) == "null" {
		return nil, nil, opts, &ErrValidation{Field: "portfolio", Message: "portfolio is required"}
	}

	load, err := experience.ParsePortfolio(req.Portfolio)
	if err != nil {
		return nil, nil, opts, err
	}

	opts.JobDescription = req.JobDescription
	if req.Format != "" {
		opts.Format = req.Format
	}
	return &req, load, opts, nil
}

// handleOptimize runs one optimization synchronously and returns the result
func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	req, load, opts, err := s.decodeOptimizeRequest(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	runner, err := pipeline.NewRunner(opts)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := runner.Run(r.Context(), load, req.Role)
	if err != nil {
		s.log.Error("optimization run failed", zap.String("role", req.Role), zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleOptimizeStream runs one optimization and streams progress as
// server-sent events, ending with the result
func (s *Server) handleOptimizeStream(w http.ResponseWriter, r *http.Request) {
	req, load, opts, err := s.decodeOptimizeRequest(w, r)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	var stream *runStream
	opts.OnProgress = func(event pipeline.ProgressEvent) {
		if err := stream.progress(event); err != nil {
			s.log.Debug("failed to write progress event", zap.Error(err))
		}
	}
	runner, err := pipeline.NewRunner(opts)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	stream, err = openRunStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	result, err := runner.Run(r.Context(), load, req.Role)
	if err != nil {
		s.log.Error("streamed optimization run failed", zap.String("role", req.Role), zap.Error(err))
		err = stream.fail(err)
	} else {
		err = stream.finish(result)
	}
	if err != nil {
		s.log.Debug("failed to write stream event", zap.Error(err))
	}
}

// handleScore scores a submitted document for an optional role
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Document) == "" {
		s.errorResponse(w, http.StatusBadRequest, "document is required")
		return
	}

	profile := keywords.BuildProfileWithDescription(req.Role, req.JobDescription)
	score, err := s.scorer.Score(req.Document, nil, profile, nil)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, score)
}

// handleGetRun returns a persisted run and its result
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		err := &ErrUnavailable{Feature: "run persistence"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	idStr := r.PathValue("id")
	runID, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID")
		return
	}

	run, err := s.store.GetRun(r.Context(), runID)
	if err != nil {
		s.log.Error("failed to get run", zap.String("run_id", idStr), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "Failed to get run")
		return
	}
	if run == nil {
		err := &ErrNotFound{Resource: "run", ID: idStr}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := s.store.GetResult(r.Context(), runID)
	if err != nil {
		s.log.Warn("failed to get run result", zap.String("run_id", idStr), zap.Error(err))
	}
	s.jsonResponse(w, http.StatusOK, RunResponse{Run: run, Result: result})
}
