package server

import (
	"io"
	"net/http"

	"github.com/jonathan/cv-builder/internal/store"
	"github.com/jonathan/cv-builder/internal/types"
)

// InlineEditRequest is the body of PUT /api/personal/{field}.
type InlineEditRequest struct {
	Value string `json:"value"`
}

// ToggleRequest carries a single flag.
type ToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// handleGetDocument returns the live document
func (s *Server) handleGetDocument(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.store.Document())
}

// handleReplaceDocument swaps the whole live document
func (s *Server) handleReplaceDocument(w http.ResponseWriter, r *http.Request) {
	doc := types.NewDocument()
	if err := decodeJSON(r, &doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Replace(doc); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.Document())
}

// handleImport applies a JSON backup to the live document
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	data, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.exports.Import(data); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.Document())
}

// handleReset restores the empty document
func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.store.Reset()
	s.jsonResponse(w, http.StatusOK, s.store.Document())
}

// handlePatchPersonal merges a partial update into the personal info
func (s *Server) handlePatchPersonal(w http.ResponseWriter, r *http.Request) {
	var patch types.PersonalPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.UpdatePersonal(patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.Personal())
}

// handleInlineEdit writes one field edited in place on the preview
func (s *Server) handleInlineEdit(w http.ResponseWriter, r *http.Request) {
	skin, ok := s.registry.Get(s.store.Preferences().TemplateID)
	if !ok || !skin.SupportsInlineEdit() {
		s.writeError(w, r, ErrInlineEditUnsupported)
		return
	}

	var req InlineEditRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.UpdatePersonalField(r.PathValue("field"), req.Value); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.Personal())
}

// handleSetPhoto stores the uploaded image bytes as the photo
func (s *Server) handleSetPhoto(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, store.DefaultMaxPhotoBytes+1))
	if err != nil {
		s.writeError(w, r, &ErrValidation{Field: "body", Message: "unreadable request body"})
		return
	}
	uri, err := store.EncodePhoto(data, store.DefaultMaxPhotoBytes)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.SetPhoto(uri); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.Personal())
}

// handleClearPhoto removes the photo
func (s *Server) handleClearPhoto(w http.ResponseWriter, r *http.Request) {
	if err := s.store.ClearPhoto(); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.Personal())
}

// handleReferencesOnRequest toggles the "available on request" notice
func (s *Server) handleReferencesOnRequest(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.store.SetReferencesAvailableOnRequest(req.Enabled)
	s.jsonResponse(w, http.StatusOK, map[string]bool{"referencesAvailableOnRequest": req.Enabled})
}
