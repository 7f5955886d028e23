package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/pagespeed-recorder/internal/db"
	"github.com/jonathan/pagespeed-recorder/internal/pipeline"
	"github.com/jonathan/pagespeed-recorder/internal/server/middleware"
	"github.com/jonathan/pagespeed-recorder/internal/types"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// RunResponse is the body answering a run request
type RunResponse struct {
	Status string           `json:"status"`
	Report *types.RunReport `json:"report"`
	Error  string           `json:"error,omitempty"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleRun runs the pipeline and answers with its report
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	report, err := s.startRun(r, nil)
	if report == nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, newRunResponse(report, err))
}

// handleRunStream runs the pipeline and streams one event per finished row
func (s *Server) handleRunStream(w http.ResponseWriter, r *http.Request) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	report, err := s.startRun(r, func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("outcome", event); err != nil {
			s.logger.Debug("failed to write progress event", zap.Error(err))
		}
	})
	if report == nil {
		sse.WriteError(err.Error())
		return
	}

	resp := newRunResponse(report, err)
	sse.WriteComplete(report.RunID.String(), resp.Status)
}

// startRun runs the pipeline unless a run is already in progress. The run
// is detached from the request so a disconnecting client does not leave
// rows half written.
func (s *Server) startRun(r *http.Request, onProgress pipeline.ProgressCallback) (*types.RunReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, &ErrRunInProgress{}
	}
	defer s.running.Store(false)

	s.runs.Add(1)
	defer s.runs.Done()

	subject, _ := middleware.GetSubject(r)
	s.logger.Info("run requested", zap.String("subject", subject))

	report, err := s.runner(context.WithoutCancel(r.Context()), onProgress)
	if report == nil && err == nil {
		err = fmt.Errorf("run produced no report")
	}
	return report, err
}

func newRunResponse(report *types.RunReport, err error) RunResponse {
	resp := RunResponse{Status: db.RunStatusSucceeded, Report: report}
	if err != nil {
		resp.Status = db.RunStatusFailed
		resp.Error = err.Error()
	}
	return resp
}

// handleListRuns returns recent runs
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		err := &ErrHistoryDisabled{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			err := &ErrValidation{Field: "limit", Message: "must be a positive integer"}
			s.errorResponse(w, HTTPStatus(err), err.Error())
			return
		}
		limit = min(n, maxListLimit)
	}

	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list runs", zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	if runs == nil {
		runs = []db.RunSummary{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"count": len(runs),
	})
}

// handleGetRun returns the report of one run
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		err := &ErrHistoryDisabled{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	runID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid run ID")
		return
	}

	report, err := s.store.GetReport(r.Context(), runID)
	if err != nil {
		s.logger.Error("failed to get run", zap.String("run_id", runID.String()), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	if report == nil {
		s.errorResponse(w, http.StatusNotFound, "run not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}
