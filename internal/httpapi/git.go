package httpapi

import (
	"net/http"
	"strconv"

	"github.com/martinemde/tandem/internal/gitops"
)

func (s *Server) repo(w http.ResponseWriter, r *http.Request) (*gitops.Repo, bool) {
	p, ok := s.project(w, r)
	if !ok {
		return nil, false
	}
	return gitops.Open(s.projectDir(p)), true
}

func (s *Server) handleGitLog(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.repo(w, r)
	if !ok {
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	commits, err := repo.Log(r.Context(), limit)
	if err != nil {
		s.fail(w, "git log", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"commits": commits})
}

func (s *Server) handleGitDiff(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.repo(w, r)
	if !ok {
		return
	}
	diff, err := repo.Diff(r.Context(), r.URL.Query().Get("path"))
	if err != nil {
		s.fail(w, "git diff", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"diff": diff})
}

func (s *Server) handleGitFile(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.repo(w, r)
	if !ok {
		return
	}
	path := r.URL.Query().Get("path")
	hash := r.URL.Query().Get("hash")
	if path == "" || hash == "" {
		httpError(w, http.StatusBadRequest, "path and hash query parameters are required")
		return
	}
	content, err := repo.FileAtCommit(r.Context(), path, hash)
	if err != nil {
		httpError(w, http.StatusNotFound, "file not found at commit")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"content": content})
}

func (s *Server) handleGitRestore(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.repo(w, r)
	if !ok {
		return
	}
	var in struct {
		Hash string `json:"hash"`
	}
	if err := decodeBody(r, &in); err != nil || in.Hash == "" {
		httpError(w, http.StatusBadRequest, "hash is required")
		return
	}
	if err := repo.Restore(r.Context(), in.Hash); err != nil {
		s.fail(w, "git restore", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "restored", "hash": in.Hash})
}

func (s *Server) handleGitRemoteGet(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.repo(w, r)
	if !ok {
		return
	}
	remote, err := repo.RemoteConfig(r.Context())
	if err != nil {
		s.fail(w, "git remote", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"remote": remote})
}

func (s *Server) handleGitRemoteSet(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.repo(w, r)
	if !ok {
		return
	}
	var in struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := decodeBody(r, &in); err != nil || in.URL == "" {
		httpError(w, http.StatusBadRequest, "url is required")
		return
	}
	if err := repo.SetRemote(r.Context(), in.Name, in.URL); err != nil {
		s.fail(w, "git remote set", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
