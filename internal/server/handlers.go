package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/exposurelab/exposurescan/internal/limiter"
	"github.com/exposurelab/exposurescan/internal/pipeline"
	"github.com/exposurelab/exposurescan/internal/stream"
)

// maxRequestBody bounds scan request bodies. Inputs are a single email,
// username, or URL; anything near this limit is not a legitimate request.
const maxRequestBody = 1 << 20

// scanRequest is the body of a scan request.
type scanRequest struct {
	// Input is the email address, username, or image URL to scan.
	Input string `json:"input"`
}

// errorResponse is the JSON body of every non-streaming error.
type errorResponse struct {
	Error string `json:"error"`
}

// statsResponse is the body of the stats endpoint.
type statsResponse struct {
	limiter.Snapshot

	// Version is the server's build version, when configured.
	Version string `json:"version,omitempty"`

	// StoredScans is the number of persisted scans. Present only when
	// persistence is enabled.
	StoredScans *int64 `json:"stored_scans,omitempty"`
}

// handleScan validates the request, then streams scan progress as
// NDJSON: event envelopes followed by exactly one result envelope.
//
// Invalid input is not an HTTP error: once streaming starts, failures
// surface as error events so the client sees the same sequence the CLI
// does. Only requests rejected before the stream begins (empty input,
// malformed body, throttling) get a synchronous status code.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON with an \"input\" field")
		return
	}

	input := strings.TrimSpace(req.Input)
	if input == "" {
		writeError(w, http.StatusBadRequest, "input must not be empty")
		return
	}

	client := clientKey(r)
	if !s.limiter.Allow(client) {
		s.stats.RecordThrottled()
		s.logger.Warn("scan request throttled", "client", client)
		writeError(w, http.StatusTooManyRequests, "scan rate limit exceeded; retry later")
		return
	}

	s.stats.RecordScan()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")

	emitter := stream.NewEmitter(w)
	result, err := s.orchestrator.Scan(r.Context(), input, emitter)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrScanAborted):
			// The terminal error event is already on the stream.
			s.stats.RecordAborted()
		case errors.Is(err, context.Canceled):
			s.logger.Debug("scan cancelled by client", "client", client)
		default:
			s.logger.Warn("scan failed", "client", client, "error", err)
		}
		return
	}

	if err := emitter.EmitResult(result); err != nil {
		s.logger.Warn("result emit failed", "client", client, "error", err)
		return
	}
	s.stats.RecordCompleted()

	if s.db != nil {
		// The client may disconnect right after the result envelope;
		// persistence must not be tied to the request context.
		saveCtx := context.WithoutCancel(r.Context())
		if err := s.db.SaveScanResult(saveCtx, result); err != nil {
			s.logger.Warn("scan persist failed", "scan_id", result.ID, "error", err)
		}
	}
}

// handleListScans returns recent persisted scans, newest first.
func (s *Server) handleListScans(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "scan history is not enabled on this server")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	summaries, err := s.db.ListScans(r.Context(), limit)
	if err != nil {
		s.logger.Error("scan listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list scans")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"scans": summaries})
}

// handleGetScan returns one persisted scan by ID.
func (s *Server) handleGetScan(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		writeError(w, http.StatusServiceUnavailable, "scan history is not enabled on this server")
		return
	}

	id := chi.URLParam(r, "id")
	result, err := s.db.GetScanResult(r.Context(), id)
	if err != nil {
		s.logger.Error("scan load failed", "scan_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "could not load scan")
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "scan not found")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleStats returns scan counters since the server started.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := statsResponse{
		Snapshot: s.stats.Snapshot(),
		Version:  s.version,
	}

	if s.db != nil {
		count, err := s.db.ScanCount(r.Context())
		if err != nil {
			s.logger.Warn("scan count failed", "error", err)
		} else {
			resp.StoredScans = &count
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// clientKey derives the rate-limit key for a request. With the RealIP
// middleware installed this is the originating client address.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
