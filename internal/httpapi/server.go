// Package httpapi exposes the service over HTTP: project and session CRUD,
// the streaming chat endpoint, visual edits, and git operations.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/martinemde/tandem/internal/config"
	"github.com/martinemde/tandem/internal/gitops"
	"github.com/martinemde/tandem/internal/screenshot"
	"github.com/martinemde/tandem/internal/store"
	"github.com/martinemde/tandem/internal/team"
)

// Server holds the request-path collaborators. It is constructed once at
// startup and passed by handle; there is no ambient global state.
type Server struct {
	cfg      config.Config
	store    *store.Store
	pipeline *team.Pipeline
	states   *team.StateStore
	shots    *screenshot.Client
	logger   *log.Logger
}

// New wires the server.
func New(cfg config.Config, st *store.Store, pipeline *team.Pipeline, states *team.StateStore, shots *screenshot.Client, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, store: st, pipeline: pipeline, states: states, shots: shots, logger: logger}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	mux.HandleFunc("GET /api/projects", s.handleListProjects)
	mux.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	mux.HandleFunc("POST /api/projects/{id}/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/projects/{id}/sessions", s.handleListSessions)
	mux.HandleFunc("POST /api/projects/{id}/visual-edit", s.handleVisualEdit)
	mux.HandleFunc("POST /api/projects/{id}/state/reset", s.handleStateReset)
	mux.HandleFunc("GET /api/projects/{id}/screenshot", s.handleScreenshot)

	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("GET /api/sessions/{id}/messages", s.handleListMessages)
	mux.HandleFunc("POST /api/sessions/{id}/chat", s.handleChat)
	mux.HandleFunc("GET /api/sessions/{id}/interactions", s.handleInteractions)

	mux.HandleFunc("GET /api/projects/{id}/git/log", s.handleGitLog)
	mux.HandleFunc("GET /api/projects/{id}/git/diff", s.handleGitDiff)
	mux.HandleFunc("GET /api/projects/{id}/git/file", s.handleGitFile)
	mux.HandleFunc("POST /api/projects/{id}/git/restore", s.handleGitRestore)
	mux.HandleFunc("GET /api/projects/{id}/git/remote", s.handleGitRemoteGet)
	mux.HandleFunc("POST /api/projects/{id}/git/remote", s.handleGitRemoteSet)

	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name string `json:"name"`
	}
	if err := decodeBody(r, &in); err != nil || in.Name == "" {
		httpError(w, http.StatusBadRequest, "name is required")
		return
	}

	p, err := s.store.CreateProject(r.Context(), in.Name, "")
	if err != nil {
		s.fail(w, "create project", err)
		return
	}

	dir := filepath.Join(s.cfg.ProjectsDir, p.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.fail(w, "create project dir", err)
		return
	}
	if err := gitops.Open(dir).Init(r.Context()); err != nil {
		s.logger.Warn("git init failed", "project", p.ID, "err", err)
	}

	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context())
	if err != nil {
		s.fail(w, "list projects", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, ok := s.project(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	p, ok := s.project(w, r)
	if !ok {
		return
	}
	var in struct {
		Title string `json:"title"`
	}
	_ = decodeBody(r, &in)
	if in.Title == "" {
		in.Title = "New session"
	}

	sess, err := s.store.CreateSession(r.Context(), p.ID, in.Title)
	if err != nil {
		s.fail(w, "create session", err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	p, ok := s.project(w, r)
	if !ok {
		return
	}
	sessions, err := s.store.ListSessions(r.Context(), p.ID)
	if err != nil {
		s.fail(w, "list sessions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, "delete session", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.store.ListMessages(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, "list messages", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (s *Server) handleStateReset(w http.ResponseWriter, r *http.Request) {
	p, ok := s.project(w, r)
	if !ok {
		return
	}
	s.states.Reset(s.projectDir(p))
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleScreenshot(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.project(w, r); !ok {
		return
	}
	url := r.URL.Query().Get("url")
	if url == "" {
		httpError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}
	img, err := s.shots.Capture(r.Context(), url)
	if err != nil {
		s.fail(w, "capture screenshot", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}

// project resolves the {id} path value, writing the error response itself
// when the lookup fails.
func (s *Server) project(w http.ResponseWriter, r *http.Request) (*store.Project, bool) {
	p, err := s.store.GetProject(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		httpError(w, http.StatusNotFound, "project not found")
		return nil, false
	}
	if err != nil {
		s.fail(w, "load project", err)
		return nil, false
	}
	return p, true
}

func (s *Server) projectDir(p *store.Project) string {
	if p.Path != "" {
		return p.Path
	}
	return filepath.Join(s.cfg.ProjectsDir, p.ID)
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op, "err", err)
	httpError(w, http.StatusInternalServerError, op+" failed")
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
