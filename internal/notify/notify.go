// Package notify delivers user-visible, non-blocking notifications from the boundaries
// of the system (import, export, photo loading, persistence).
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Level is the severity of a notification.
type Level string

// Notification levels.
const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Notification is one message shown to the user.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Detail  string    `json:"detail,omitempty"`
	Time    time.Time `json:"time"`
}

// Notifier receives notifications. Implementations must not block the caller.
type Notifier interface {
	Info(message string)
	Error(message string, err error)
}

func newNotification(level Level, message string, err error) Notification {
	n := Notification{Level: level, Message: message, Time: time.Now()}
	if err != nil {
		n.Detail = err.Error()
	}
	return n
}

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a notifier backed by logger.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Info logs at info level.
func (n *LogNotifier) Info(message string) {
	n.logger.Info(message)
}

// Error logs at error level with the cause attached.
func (n *LogNotifier) Error(message string, err error) {
	n.logger.Error(message, zap.Error(err))
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Info records an info notification.
func (r *Recorder) Info(message string) {
	r.record(newNotification(LevelInfo, message, nil))
}

// Error records an error notification.
func (r *Recorder) Error(message string, err error) {
	r.record(newNotification(LevelError, message, err))
}

func (r *Recorder) record(n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// Notifications returns a copy of what was recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Errors returns only error notifications.
func (r *Recorder) Errors() []Notification {
	var out []Notification
	for _, n := range r.Notifications() {
		if n.Level == LevelError {
			out = append(out, n)
		}
	}
	return out
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

// Info forwards to every notifier.
func (m Multi) Info(message string) {
	for _, n := range m {
		n.Info(message)
	}
}

// Error forwards to every notifier.
func (m Multi) Error(message string, err error) {
	for _, n := range m {
		n.Error(message, err)
	}
}

// Nop discards notifications.
type Nop struct{}

// Info does nothing.
func (Nop) Info(string) {}

// Error does nothing.
func (Nop) Error(string, error) {}
