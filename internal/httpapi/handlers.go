package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/MimeLyc/td2-chat-translator/internal/jobs"
	"github.com/MimeLyc/td2-chat-translator/internal/translator"
)

type selectionResponse struct {
	TargetLanguage string `json:"target_language"`
	Backend        string `json:"backend"`
	ShowOriginal   bool   `json:"show_original"`
}

// selectionRequest is a partial update; absent fields keep their value.
type selectionRequest struct {
	TargetLanguage *string `json:"target_language"`
	Backend        *string `json:"backend"`
	ShowOriginal   *bool   `json:"show_original"`
}

type statusResponse struct {
	Active    bool              `json:"active"`
	Selection selectionResponse `json:"selection"`
	Queue     *queueResponse    `json:"queue,omitempty"`
}

type queueResponse struct {
	Pending          int    `json:"pending"`
	OldestPendingSec int64  `json:"oldest_pending_sec"`
	Processed        uint64 `json:"processed"`
	Failed           uint64 `json:"failed"`
	Running          bool   `json:"running"`
}

type sessionResponse struct {
	Active bool   `json:"active"`
	Path   string `json:"path,omitempty"`
}

func toSelectionResponse(sel translator.Selection) selectionResponse {
	return selectionResponse{
		TargetLanguage: sel.TargetLanguage,
		Backend:        sel.Backend,
		ShowOriginal:   sel.ShowOriginal,
	}
}

func toQueueResponse(stats jobs.Stats) *queueResponse {
	return &queueResponse{
		Pending:          stats.Pending,
		OldestPendingSec: int64(stats.OldestPending.Seconds()),
		Processed:        stats.Processed,
		Failed:           stats.Failed,
		Running:          stats.Running,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var resp statusResponse
	if s.session != nil {
		resp.Active = s.session.Active()
	}
	if s.settings != nil {
		resp.Selection = toSelectionResponse(s.settings.Selection())
	}
	if s.queue != nil {
		resp.Queue = toQueueResponse(s.queue.Stats())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	if s.settings == nil {
		writeError(w, http.StatusNotImplemented, "selection store is not configured")
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, toSelectionResponse(s.settings.Selection()))
	case http.MethodPut:
		var req selectionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		saved, err := s.settings.Update(func(sel *translator.Selection) {
			if req.TargetLanguage != nil {
				sel.TargetLanguage = *req.TargetLanguage
			}
			if req.Backend != nil {
				sel.Backend = *req.Backend
			}
			if req.ShowOriginal != nil {
				sel.ShowOriginal = *req.ShowOriginal
			}
		})
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, toSelectionResponse(saved))
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleSession serves POST /api/session/{start,restart,stop}.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.session == nil {
		writeError(w, http.StatusNotImplemented, "session control is not configured")
		return
	}

	var (
		path string
		err  error
	)
	switch action := strings.TrimPrefix(r.URL.Path, "/api/session/"); action {
	case "start":
		path, err = s.session.Start()
	case "restart":
		path, err = s.session.Restart()
	case "stop":
		s.session.Stop()
	default:
		writeError(w, http.StatusNotFound, "unknown session action")
		return
	}
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Active: s.session.Active(), Path: path})
}

// handleChat returns retained items after ?since=<seq>.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	since, ok := parseSince(r.URL.Query().Get("since"))
	if !ok {
		writeError(w, http.StatusBadRequest, "since must be a non-negative integer")
		return
	}
	writeJSON(w, http.StatusOK, s.feed.Since(since))
}

func parseSince(raw string) (uint64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}
