package store

import (
	"sort"

	"github.com/jonathan/cv-builder/internal/storage"
	"github.com/jonathan/cv-builder/internal/types"
)

// SaveAsNew snapshots the live document and template under a fresh id.
func (s *Store) SaveAsNew(name string) types.SavedCV {
	s.mu.Lock()
	cv := types.SavedCV{
		ID:           s.newID(),
		Name:         name,
		Data:         s.doc.Clone(),
		Template:     s.prefs.TemplateID,
		LastModified: s.now().UTC(),
	}
	s.saved = append(s.saved, cv)
	s.scheduleLocked(storage.KeySavedList, s.saved)
	s.mu.Unlock()

	s.notifySubscribers()
	return cv.Clone()
}

// UpdateSaved overwrites the snapshot, template and timestamp of an existing saved CV.
// Its id and name stay the same.
func (s *Store) UpdateSaved(id string) (types.SavedCV, error) {
	s.mu.Lock()
	i := s.savedIndexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return types.SavedCV{}, ErrSavedCVNotFound
	}
	s.saved[i].Data = s.doc.Clone()
	s.saved[i].Template = s.prefs.TemplateID
	s.saved[i].LastModified = s.now().UTC()
	out := s.saved[i].Clone()
	s.scheduleLocked(storage.KeySavedList, s.saved)
	s.mu.Unlock()

	s.notifySubscribers()
	return out, nil
}

// LoadSaved replaces the live document with a copy of a saved snapshot and selects its template.
func (s *Store) LoadSaved(id string) error {
	s.mu.Lock()
	i := s.savedIndexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrSavedCVNotFound
	}
	s.doc = s.saved[i].Data.Clone()
	s.doc.Normalize()
	if s.saved[i].Template != "" {
		s.prefs.TemplateID = s.saved[i].Template
		s.scheduleLocked(storage.KeyPreferences, s.prefs)
	}
	s.afterDocumentChangeLocked()
	s.mu.Unlock()

	s.notifySubscribers()
	return nil
}

// DeleteSaved removes a saved CV. There is no undo.
func (s *Store) DeleteSaved(id string) error {
	s.mu.Lock()
	i := s.savedIndexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrSavedCVNotFound
	}
	next := make([]types.SavedCV, 0, len(s.saved)-1)
	next = append(next, s.saved[:i]...)
	next = append(next, s.saved[i+1:]...)
	s.saved = next
	s.scheduleLocked(storage.KeySavedList, s.saved)
	s.mu.Unlock()

	s.notifySubscribers()
	return nil
}

// SavedCV returns a copy of one saved CV.
func (s *Store) SavedCV(id string) (types.SavedCV, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.savedIndexLocked(id)
	if i < 0 {
		return types.SavedCV{}, ErrSavedCVNotFound
	}
	return s.saved[i].Clone(), nil
}

// SavedCVs returns copies of every saved CV, most recently modified first.
func (s *Store) SavedCVs() []types.SavedCV {
	s.mu.RLock()
	out := make([]types.SavedCV, len(s.saved))
	for i, cv := range s.saved {
		out[i] = cv.Clone()
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].LastModified.After(out[b].LastModified)
	})
	return out
}

func (s *Store) savedIndexLocked(id string) int {
	for i := range s.saved {
		if s.saved[i].ID == id {
			return i
		}
	}
	return -1
}
