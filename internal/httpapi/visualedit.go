package httpapi

import (
	"net/http"

	"github.com/martinemde/tandem/internal/patch"
	"github.com/martinemde/tandem/internal/sandbox"
)

// handleVisualEdit applies one selector-targeted style or class edit to a
// source file. This path is independent of the turn loop: it mutates exactly
// one element span rather than rewriting the file.
func (s *Server) handleVisualEdit(w http.ResponseWriter, r *http.Request) {
	p, ok := s.project(w, r)
	if !ok {
		return
	}

	var in struct {
		Filepath      string            `json:"filepath"`
		Selector      string            `json:"selector"`
		Styles        map[string]string `json:"styles,omitempty"`
		ClassName     *string           `json:"class_name,omitempty"`
		OriginalClass string            `json:"original_class,omitempty"`
	}
	if err := decodeBody(r, &in); err != nil || in.Filepath == "" {
		httpError(w, http.StatusBadRequest, "filepath is required")
		return
	}
	if len(in.Styles) == 0 && in.ClassName == nil {
		httpError(w, http.StatusBadRequest, "one of styles or class_name is required")
		return
	}

	sel, err := patch.ParseSelector(in.Selector)
	if err != nil {
		httpError(w, http.StatusBadRequest, err.Error())
		return
	}

	ws, err := sandbox.New(s.projectDir(p))
	if err != nil {
		s.fail(w, "open workspace", err)
		return
	}
	source, err := ws.ReadRaw(in.Filepath)
	if err != nil {
		httpError(w, http.StatusNotFound, "file not found: "+in.Filepath)
		return
	}

	patched, matched := patch.Apply(source, sel, patch.Edit{
		Styles:        in.Styles,
		Class:         in.ClassName,
		OriginalClass: in.OriginalClass,
	})
	if matched {
		if err := ws.WriteFile(in.Filepath, patched); err != nil {
			s.fail(w, "write patched file", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"matched":  matched,
		"selector": sel.String(),
	})
}
