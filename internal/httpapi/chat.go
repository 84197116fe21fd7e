package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/martinemde/tandem/internal/store"
	"github.com/martinemde/tandem/internal/stream"
	"github.com/martinemde/tandem/internal/team"
)

// handleChat runs one pipeline turn for a session and streams the events
// back as newline-delimited JSON frames. The request context carries the
// cancellation signal: a dropped connection cancels the run, which still
// releases the workspace and persists the partial interaction log.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.GetSession(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		httpError(w, http.StatusNotFound, "session not found")
		return
	}
	if err != nil {
		s.fail(w, "load session", err)
		return
	}

	var in struct {
		Message string `json:"message"`
	}
	if err := decodeBody(r, &in); err != nil || in.Message == "" {
		httpError(w, http.StatusBadRequest, "message is required")
		return
	}

	p, err := s.store.GetProject(r.Context(), sess.ProjectID)
	if err != nil {
		s.fail(w, "load project", err)
		return
	}

	if _, err := s.store.AppendMessage(r.Context(), sess.ID, "user", in.Message); err != nil {
		s.logger.Warn("persist user message failed", "session", sess.ID, "err", err)
	}
	if err := s.store.TouchSession(r.Context(), sess.ID); err != nil {
		s.logger.Warn("touch session failed", "session", sess.ID, "err", err)
	}

	emitter := team.NewEmitter(256)
	go s.pipeline.Run(r.Context(), team.RunParams{
		SessionID:   sess.ID,
		ProjectDir:  s.projectDir(p),
		UserRequest: in.Message,
	}, emitter)

	sw := stream.NewWriter(w)
	if err := stream.Pump(emitter.Events(), sw, s.cfg.Run.KeepAlive()); err != nil {
		s.logger.Debug("stream consumer gone", "session", sess.ID, "err", err)
	}
}

// handleInteractions serves the reconnect path: all interaction records for
// a session with seq greater than ?after, in order.
func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	after := int64(0)
	if v := r.URL.Query().Get("after"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			httpError(w, http.StatusBadRequest, "after must be a non-negative integer")
			return
		}
		after = n
	}

	records, err := s.store.InteractionsSince(r.Context(), sessionID, after)
	if err != nil {
		s.fail(w, "load interactions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"interactions": records})
}
