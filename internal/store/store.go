package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/cv-builder/internal/i18n"
	"github.com/jonathan/cv-builder/internal/logging"
	"github.com/jonathan/cv-builder/internal/metrics"
	"github.com/jonathan/cv-builder/internal/notify"
	"github.com/jonathan/cv-builder/internal/schemas"
	"github.com/jonathan/cv-builder/internal/storage"
	"github.com/jonathan/cv-builder/internal/types"
	embedded "github.com/jonathan/cv-builder/schemas"
	"go.uber.org/zap"
)

// Config holds the collaborators of a Store. Every field is optional.
type Config struct {
	Logger   *zap.Logger
	Notifier notify.Notifier
	Metrics  *metrics.Metrics
	// Now is the clock used for saved CV timestamps.
	Now func() time.Time
	// NewID generates saved CV ids.
	NewID func() string
	// TemplateExists rejects unknown template ids when set.
	TemplateExists func(id string) bool
	// InitialPreferences replaces the defaults of a fresh profile. Stored preferences win.
	InitialPreferences *types.Preferences
}

// Store is the single writer of the CV state. It is safe for concurrent use.
// Reads return deep copies; every mutation schedules a background write-through.
type Store struct {
	mu    sync.RWMutex
	doc   types.CVDocument
	prefs types.Preferences
	saved []types.SavedCV

	logger         *zap.Logger
	notifier       notify.Notifier
	metrics        *metrics.Metrics
	now            func() time.Time
	newID          func() string
	templateExists func(string) bool

	persister *persister

	subMu  sync.Mutex
	nextID int
	subs   map[int]chan struct{}
}

// New creates a store holding the zero document and default preferences.
// A nil backend keeps state in memory only.
func New(backend storage.Backend, cfg Config) *Store {
	s := &Store{
		doc:            types.NewDocument(),
		prefs:          types.DefaultPreferences(),
		saved:          []types.SavedCV{},
		logger:         logging.OrNop(cfg.Logger),
		notifier:       cfg.Notifier,
		metrics:        cfg.Metrics,
		now:            cfg.Now,
		newID:          cfg.NewID,
		templateExists: cfg.TemplateExists,
		subs:           make(map[int]chan struct{}),
	}
	if cfg.InitialPreferences != nil {
		s.prefs = *cfg.InitialPreferences
	}
	if s.notifier == nil {
		s.notifier = notify.Nop{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}
	if backend == nil {
		backend = storage.NewMemoryBackend()
	}
	s.persister = newPersister(backend, s.logger, s.metrics, s.reportPersistFailure)
	return s
}

// Open creates a store and restores the document, preferences and saved CVs from backend.
// Missing keys fall back to zero values; corrupt values are logged and ignored.
func Open(ctx context.Context, backend storage.Backend, cfg Config) (*Store, error) {
	s := New(backend, cfg)

	if data, ok, err := s.read(ctx, backend, storage.KeyDocument); err != nil {
		return nil, err
	} else if ok {
		doc := types.NewDocument()
		if err := json.Unmarshal(data, &doc); err != nil {
			s.logger.Warn("ignoring corrupt stored document", zap.Error(err))
		} else {
			doc.Normalize()
			s.doc = doc
		}
	}

	if data, ok, err := s.read(ctx, backend, storage.KeyPreferences); err != nil {
		return nil, err
	} else if ok {
		prefs := types.DefaultPreferences()
		if err := json.Unmarshal(data, &prefs); err != nil {
			s.logger.Warn("ignoring corrupt stored preferences", zap.Error(err))
		} else if err := prefs.Validate(); err != nil {
			s.logger.Warn("ignoring invalid stored preferences", zap.Error(err))
		} else {
			s.prefs = prefs
		}
	}

	if data, ok, err := s.read(ctx, backend, storage.KeySavedList); err != nil {
		return nil, err
	} else if ok {
		var saved []types.SavedCV
		if err := schemas.Validate(embedded.SavedList, data); err != nil {
			s.logger.Warn("ignoring invalid saved CV list", zap.Error(err))
		} else if err := json.Unmarshal(data, &saved); err != nil {
			s.logger.Warn("ignoring corrupt saved CV list", zap.Error(err))
		} else {
			for i := range saved {
				saved[i].Data.Normalize()
			}
			if saved == nil {
				saved = []types.SavedCV{}
			}
			s.saved = saved
		}
	}

	s.logger.Debug("store restored",
		zap.Int("experience", len(s.doc.Experience)),
		zap.Int("saved_cvs", len(s.saved)),
		zap.String("template", s.prefs.TemplateID))
	return s, nil
}

func (s *Store) read(ctx context.Context, backend storage.Backend, key string) ([]byte, bool, error) {
	data, err := backend.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to restore %s: %w", key, err)
	}
	return data, true, nil
}

// Document returns a deep copy of the live document.
func (s *Store) Document() types.CVDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Personal returns a copy of the personal info.
func (s *Store) Personal() types.PersonalInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Personal.Clone()
}

// Snapshot returns the document and preferences read under one lock, so exporters see a
// consistent pair.
func (s *Store) Snapshot() (types.CVDocument, types.Preferences) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone(), s.prefs
}

// HasData reports whether a section of the live document is populated.
func (s *Store) HasData(section types.Section) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.HasData(section)
}

// ExperienceAtSuggestedLimit reports whether the editor should stop offering new
// experience entries. It is advisory; AddExperience still accepts more.
func (s *Store) ExperienceAtSuggestedLimit() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.doc.Experience) >= types.SuggestedMaxExperience
}

// Load shallow-merges patch into the live document: each key present in the patch replaces
// the live value wholesale.
func (s *Store) Load(patch types.DocumentPatch) error {
	if patch.Personal != nil {
		if err := types.ValidatePersonal(patch.Personal); err != nil {
			return &ValidationError{Message: "invalid personal info", Cause: err}
		}
	}
	s.mutateDocument(func(doc *types.CVDocument) {
		patch.Apply(doc)
	})
	return nil
}

// Replace swaps the whole live document for a copy of doc.
func (s *Store) Replace(doc types.CVDocument) error {
	if err := types.ValidatePersonal(&doc.Personal); err != nil {
		return &ValidationError{Message: "invalid personal info", Cause: err}
	}
	next := doc.Clone()
	next.Normalize()
	s.mutateDocument(func(d *types.CVDocument) {
		*d = next
	})
	return nil
}

// Reset restores the zero document. Saved CVs and preferences are untouched.
func (s *Store) Reset() {
	s.mutateDocument(func(d *types.CVDocument) {
		*d = types.NewDocument()
	})
}

// UpdatePersonal shallow-merges patch into the personal info only.
func (s *Store) UpdatePersonal(patch types.PersonalPatch) error {
	s.mu.Lock()
	next := s.doc.Personal.Clone()
	patch.Apply(&next)
	if err := types.ValidatePersonal(&next); err != nil {
		s.mu.Unlock()
		return &ValidationError{Message: "invalid personal info", Cause: err}
	}
	s.doc.Personal = next
	s.afterDocumentChangeLocked()
	s.mu.Unlock()

	s.notifySubscribers()
	return nil
}

// UpdatePersonalField writes one inline-edited text field, addressed by its data-field name.
func (s *Store) UpdatePersonalField(field, value string) error {
	patch, err := types.PersonalFieldPatch(field, value)
	if err != nil {
		return &ValidationError{Message: "unknown field", Cause: err}
	}
	return s.UpdatePersonal(patch)
}

// SetPhoto stores an image data URI and turns the photo on.
func (s *Store) SetPhoto(dataURI string) error {
	show := true
	return s.UpdatePersonal(types.PersonalPatch{Photo: &dataURI, SetPhoto: true, ShowPhoto: &show})
}

// ClearPhoto removes the image. ShowPhoto keeps its value.
func (s *Store) ClearPhoto() error {
	return s.UpdatePersonal(types.PersonalPatch{SetPhoto: true})
}

// SetReferencesAvailableOnRequest toggles the "available on request" notice.
func (s *Store) SetReferencesAvailableOnRequest(on bool) {
	s.mutateDocument(func(d *types.CVDocument) {
		d.ReferencesAvailableOnRequest = on
	})
}

// mutateDocument applies fn under the write lock and schedules persistence of the document.
func (s *Store) mutateDocument(fn func(doc *types.CVDocument)) {
	s.mu.Lock()
	fn(&s.doc)
	s.afterDocumentChangeLocked()
	s.mu.Unlock()

	s.notifySubscribers()
}

// afterDocumentChangeLocked must be called with s.mu held for writing.
func (s *Store) afterDocumentChangeLocked() {
	s.scheduleLocked(storage.KeyDocument, s.doc)
}

func (s *Store) scheduleLocked(key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("failed to serialize state", zap.String("key", key), zap.Error(err))
		return
	}
	s.persister.schedule(key, data)
}

func (s *Store) reportPersistFailure(key string, err error) {
	s.mu.RLock()
	lang := s.prefs.Language
	s.mu.RUnlock()

	message := "failed to persist changes"
	if labels, lerr := i18n.Get(lang); lerr == nil {
		message = labels.Notifications.PersistFailed
	}
	s.notifier.Error(message, fmt.Errorf("%s: %w", key, err))
}

// Subscribe returns a channel signalled after every mutation. Signals coalesce: a slow
// reader sees one pending signal however many mutations happened.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notifySubscribers() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Flush waits until every scheduled write reached the backend.
func (s *Store) Flush(ctx context.Context) error {
	return s.persister.flush(ctx)
}

// Close flushes pending writes, stops the persister and closes the backend.
func (s *Store) Close(ctx context.Context) error {
	err := s.persister.close(ctx)
	if cerr := s.persister.backend.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
