package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/jonathan/cv-builder/internal/export"
	"github.com/jonathan/cv-builder/internal/prompts"
)

// handleExport returns a handler downloading one artifact format
func (s *Server) handleExport(format string) http.HandlerFunc {
	var build func(context.Context) (*export.Artifact, error)
	switch format {
	case export.FormatJSON:
		build = s.exports.JSON
	case export.FormatDOCX:
		build = s.exports.DOCX
	default:
		build = s.exports.PDF
	}

	return func(w http.ResponseWriter, r *http.Request) {
		art, err := build(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", art.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Filename))
		w.Header().Set("Content-Length", strconv.Itoa(len(art.Data)))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(art.Data)
	}
}

// handlePrompt returns the AI review prompt for the live document
func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	doc, prefs := s.store.Snapshot()
	prompt, err := prompts.Build(prefs.Language, doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, prompt)
}
