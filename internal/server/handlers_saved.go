package server

import (
	"net/http"
	"strings"
)

// SaveRequest is the body of POST /api/saved.
type SaveRequest struct {
	Name string `json:"name"`
}

// handleListSaved lists the saved CVs, most recent first
func (s *Server) handleListSaved(w http.ResponseWriter, _ *http.Request) {
	saved := s.store.SavedCVs()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"saved": saved,
		"total": len(saved),
	})
}

// handleSaveAsNew snapshots the live document under a new id
func (s *Server) handleSaveAsNew(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		s.writeError(w, r, &ErrValidation{Field: "name", Message: "name is required"})
		return
	}
	s.jsonResponse(w, http.StatusCreated, s.store.SaveAsNew(name))
}

// handleGetSaved returns one saved CV
func (s *Server) handleGetSaved(w http.ResponseWriter, r *http.Request) {
	cv, err := s.store.SavedCV(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, cv)
}

// handleUpdateSaved overwrites a saved CV with the live document
func (s *Server) handleUpdateSaved(w http.ResponseWriter, r *http.Request) {
	cv, err := s.store.UpdateSaved(r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, cv)
}

// handleLoadSaved makes a saved CV the live document
func (s *Server) handleLoadSaved(w http.ResponseWriter, r *http.Request) {
	if err := s.store.LoadSaved(r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.store.Document())
}

// handleDeleteSaved removes a saved CV
func (s *Server) handleDeleteSaved(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSaved(r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
