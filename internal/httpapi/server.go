// Package httpapi serves the chat feed and session controls over HTTP on the
// local machine, for browser overlays and remote control.
package httpapi

import (
	"context"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/MimeLyc/td2-chat-translator/internal/jobs"
	"github.com/MimeLyc/td2-chat-translator/internal/translator"
)

// Session is the polling side's control surface.
type Session interface {
	Start() (string, error)
	Restart() (string, error)
	Stop()
	Active() bool
}

type selectionStore interface {
	Selection() translator.Selection
	Update(fn func(*translator.Selection)) (translator.Selection, error)
}

type statsSource interface {
	Stats() jobs.Stats
}

type Server struct {
	feed     *Feed
	session  Session
	settings selectionStore
	queue    statsSource

	uiEnabled   bool
	uiStaticDir string

	mux    *http.ServeMux
	server *http.Server
}

type Option func(*Server)

func WithUI(staticDir string, enabled bool) Option {
	return func(s *Server) {
		s.uiStaticDir = staticDir
		s.uiEnabled = enabled
	}
}

func WithSession(session Session) Option {
	return func(s *Server) {
		s.session = session
	}
}

func WithSelectionStore(store selectionStore) Option {
	return func(s *Server) {
		s.settings = store
	}
}

func WithQueue(queue statsSource) Option {
	return func(s *Server) {
		s.queue = queue
	}
}

func NewServer(feed *Feed, opts ...Option) *Server {
	s := &Server{
		feed: feed,
		mux:  http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.HandleFunc("/api/selection", s.handleSelection)
	s.mux.HandleFunc("/api/session/", s.handleSession)
	s.mux.HandleFunc("/api/chat", s.handleChat)
	s.mux.HandleFunc("/api/chat/stream", s.handleChatStream)
	s.mux.HandleFunc("/", s.handleStatic)
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	if !s.uiEnabled || s.uiStaticDir == "" {
		http.NotFound(w, r)
		return
	}

	rel := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	indexPath := filepath.Join(s.uiStaticDir, "index.html")

	if rel == "" || !strings.Contains(filepath.Base(rel), ".") {
		http.ServeFile(w, r, indexPath)
		return
	}

	filePath := filepath.Join(s.uiStaticDir, rel)
	if _, err := os.Stat(filePath); err != nil {
		// unknown asset: the overlay page handles its own routes
		http.ServeFile(w, r, indexPath)
		return
	}
	http.ServeFile(w, r, filePath)
}
