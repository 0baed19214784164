package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/huangsam/anomalyplot/core"
	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/internal/outwriter"
	"github.com/huangsam/anomalyplot/schema"
)

// contentTypes maps output modes to their response content type.
var contentTypes = map[schema.OutputMode]string{
	schema.HTMLOut: "text/html; charset=utf-8",
	schema.SVGOut:  "image/svg+xml",
	schema.PNGOut:  "image/png",
	schema.JSONOut: "application/json",
}

// handleHealth reports liveness and the served dataset.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"dataset": s.cfg.DatasetPath,
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.serveAnnotation(w, r, schema.HTMLOut)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	mode := schema.SVGOut
	if r.URL.Path == "/chart.png" {
		mode = schema.PNGOut
	}
	s.serveAnnotation(w, r, mode)
}

func (s *Server) handleAnnotation(w http.ResponseWriter, r *http.Request) {
	s.serveAnnotation(w, r, schema.JSONOut)
}

// handleHistoryStatus reports the render history store status.
func (s *Server) handleHistoryStatus(w http.ResponseWriter, _ *http.Request) {
	var store contract.HistoryStore
	if s.history != nil {
		store = s.history.GetHistoryStore()
	}
	if store == nil {
		writeNotFound(w, "render history is not enabled")
		return
	}
	status, err := store.GetStatus()
	if err != nil {
		s.logger.Error("history status failed", "error", err)
		writeInternalError(w, "failed to read history status")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// serveAnnotation loads the dataset, annotates it and writes it in mode.
// A ?revision= query parameter overrides the marked revision.
func (s *Server) serveAnnotation(w http.ResponseWriter, r *http.Request, mode schema.OutputMode) {
	rev, err := schema.ParseRevision(r.URL.Query().Get("revision"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	cfg := s.cfg.Clone()
	cfg.Output = mode
	cfg.OutputFile = ""
	if rev != nil {
		cfg.Revision = rev
	}

	start := time.Now()
	ds, err := core.LoadDataset(cfg)
	if err != nil {
		s.writeRenderError(w, err)
		return
	}
	result, err := core.AnnotateDataset(r.Context(), cfg, ds, s.history)
	if err != nil {
		s.writeRenderError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := outwriter.WriteAnnotation(&buf, result, cfg, time.Since(start)); err != nil {
		s.logger.Error("writing annotation failed", "error", err, "output", mode)
		writeInternalError(w, "failed to write annotation")
		return
	}

	w.Header().Set("Content-Type", contentTypes[mode])
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// writeRenderError maps dataset and annotation failures to HTTP errors.
func (s *Server) writeRenderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, os.ErrNotExist):
		writeNotFound(w, "dataset not found")
	case errors.Is(err, core.ErrNoSeries), errors.Is(err, core.ErrAnomalyMismatch):
		writeError(w, http.StatusUnprocessableEntity, ErrCodeInvalidDataset, err.Error())
	default:
		s.logger.Warn("render failed", "error", err)
		writeError(w, http.StatusUnprocessableEntity, ErrCodeInvalidDataset, fmt.Sprintf("cannot render dataset: %v", err))
	}
}
