package server

import (
	"io"
	"net/http"
	"time"

	"github.com/jonathan/cv-builder/internal/notify"
	"go.uber.org/zap"
)

// keepAliveInterval is how often an idle event stream sends a comment.
const keepAliveInterval = 25 * time.Second

// PagesResponse is the body of GET /preview/pages.
type PagesResponse struct {
	Template string  `json:"template"`
	Height   float64 `json:"height"`
	Pages    int     `json:"pages"`
}

// ChangedEvent is sent on the event stream after every store mutation.
type ChangedEvent struct {
	Template string `json:"template"`
	Language string `json:"language"`
}

// handlePreview returns the rendered document as a standalone HTML page
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	preview, err := s.exports.Preview(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeHTML(w, preview.Visual.HTML())
}

// handlePreviewPages returns the measured height and page count
func (s *Server) handlePreviewPages(w http.ResponseWriter, r *http.Request) {
	preview, err := s.exports.Preview(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, PagesResponse{
		Template: preview.Visual.Template,
		Height:   preview.Height,
		Pages:    preview.Pages,
	})
}

// handlePrint returns the paginated print view
func (s *Server) handlePrint(w http.ResponseWriter, r *http.Request) {
	page, err := s.exports.PrintView(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeHTML(w, page)
}

// handleEvents streams store changes and user notifications until the client goes away
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	changes, unsubscribe := s.store.Subscribe()
	defer unsubscribe()

	var notifications <-chan notify.Notification
	if s.broadcaster != nil {
		ch, cancel := s.broadcaster.Subscribe()
		defer cancel()
		notifications = ch
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	if err := sse.WriteEvent("changed", s.changedEvent()); err != nil {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case <-changes:
			err = sse.WriteEvent("changed", s.changedEvent())
		case n, ok := <-notifications:
			if !ok {
				notifications = nil
				continue
			}
			err = sse.WriteEvent("notification", n)
		case <-ticker.C:
			err = sse.WriteComment("keep-alive")
		}
		if err != nil {
			s.logger.Debug("event stream closed", zap.Error(err))
			return
		}
	}
}

func (s *Server) changedEvent() ChangedEvent {
	prefs := s.store.Preferences()
	return ChangedEvent{Template: prefs.TemplateID, Language: prefs.Language}
}

func writeHTML(w http.ResponseWriter, page string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, page)
}
