package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/cv-builder/internal/types"
)

// SectionResult reports the outcome of a list mutation. Applied is false when the index
// was out of range and nothing changed.
type SectionResult struct {
	Section types.Section `json:"section"`
	Applied bool          `json:"applied"`
	Count   int           `json:"count"`
	// SuggestedLimitReached is set for experience once the advisory cap is met.
	SuggestedLimitReached bool `json:"suggestedLimitReached,omitempty"`
}

func parseSection(r *http.Request) (types.Section, error) {
	name := r.PathValue("section")
	section, ok := types.ParseSection(name)
	if !ok {
		return "", &ErrValidation{Field: "section", Message: "unknown section " + strconv.Quote(name)}
	}
	return section, nil
}

func parseIndex(r *http.Request) (int, error) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return 0, &ErrValidation{Field: "index", Message: "index must be an integer"}
	}
	return i, nil
}

func (s *Server) sectionResult(section types.Section, applied bool) SectionResult {
	res := SectionResult{
		Section: section,
		Applied: applied,
		Count:   s.store.Document().Len(section),
	}
	if section == types.SectionExperience {
		res.SuggestedLimitReached = s.store.ExperienceAtSuggestedLimit()
	}
	return res
}

// handleAddItem appends one entry to a section
func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	section, err := parseSection(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.AddJSON(section, data); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, s.sectionResult(section, true))
}

// handleUpdateItem replaces the entry at an index
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	section, err := parseSection(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	i, err := parseIndex(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := readBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	applied, err := s.store.UpdateJSON(section, i, data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sectionResult(section, applied))
}

// handleRemoveItem deletes the entry at an index
func (s *Server) handleRemoveItem(w http.ResponseWriter, r *http.Request) {
	section, err := parseSection(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	i, err := parseIndex(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	applied, err := s.store.Remove(section, i)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sectionResult(section, applied))
}
