// Package patch applies UI-originated style and class edits to JSX/TSX
// source as a minimal, targeted mutation. It is selector-based text surgery,
// not a markup parser: it scans for opening tags and rewrites at most one
// element's attributes, leaving every other byte of the file untouched.
package patch

import (
	"fmt"
	"strings"
)

// Selector identifies a target element: a tag name with at most one of a
// class filter or an id filter.
type Selector struct {
	Tag         string
	ClassFilter string
	IDFilter    string
}

// ParseSelector parses "tag", "tag.class", or "tag#id".
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Selector{}, fmt.Errorf("empty selector")
	}

	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		tag, class := s[:idx], s[idx+1:]
		if tag == "" || class == "" {
			return Selector{}, fmt.Errorf("invalid selector %q", s)
		}
		return Selector{Tag: tag, ClassFilter: class}, nil
	}
	if idx := strings.IndexByte(s, '#'); idx >= 0 {
		tag, id := s[:idx], s[idx+1:]
		if tag == "" || id == "" {
			return Selector{}, fmt.Errorf("invalid selector %q", s)
		}
		return Selector{Tag: tag, IDFilter: id}, nil
	}
	return Selector{Tag: s}, nil
}

// String renders the selector back to its textual form.
func (s Selector) String() string {
	switch {
	case s.ClassFilter != "":
		return s.Tag + "." + s.ClassFilter
	case s.IDFilter != "":
		return s.Tag + "#" + s.IDFilter
	default:
		return s.Tag
	}
}
