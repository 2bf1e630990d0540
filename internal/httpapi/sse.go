package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const keepAliveInterval = 15 * time.Second

// handleChatStream replays items after ?since and then pushes new ones as
// server-sent events until the client goes away.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	since, ok := parseSince(r.URL.Query().Get("since"))
	if !ok {
		writeError(w, http.StatusBadRequest, "since must be a non-negative integer")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// subscribe before replaying so nothing rendered in between is lost
	items, unsubscribe := s.feed.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	send := func(it FeedItem) bool {
		payload, err := json.Marshal(it)
		if err != nil {
			return false
		}
		if _, err := fmt.Fprintf(w, "id: %d\ndata: %s\n\n", it.Seq, payload); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	last := since
	for _, it := range s.feed.Since(since) {
		if !send(it) {
			return
		}
		last = it.Seq
	}
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case it := <-items:
			if it.Seq <= last {
				continue
			}
			if !send(it) {
				return
			}
			last = it.Seq
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
