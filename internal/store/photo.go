package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"github.com/jonathan/cv-builder/internal/logging"
	"github.com/jonathan/cv-builder/internal/notify"
	"go.uber.org/zap"
)

// DefaultMaxPhotoBytes caps the size of a photo file.
const DefaultMaxPhotoBytes = 5 << 20

// PhotoLoader reads user-selected image files in the background and applies them to the
// store. When selections overlap, the latest selection wins: starting a new read cancels
// the previous one, and a read that finishes after a newer selection is discarded.
type PhotoLoader struct {
	store    *Store
	notifier notify.Notifier
	logger   *zap.Logger
	maxBytes int64

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPhotoLoader creates a loader applying photos to s. A nil notifier uses the store's.
func NewPhotoLoader(s *Store, notifier notify.Notifier, logger *zap.Logger) *PhotoLoader {
	if notifier == nil {
		notifier = s.notifier
	}
	return &PhotoLoader{
		store:    s,
		notifier: notifier,
		logger:   logging.OrNop(logger),
		maxBytes: DefaultMaxPhotoBytes,
	}
}

// SetMaxBytes changes the size cap.
func (l *PhotoLoader) SetMaxBytes(n int64) {
	l.mu.Lock()
	l.maxBytes = n
	l.mu.Unlock()
}

// Select starts reading path and returns immediately.
func (l *PhotoLoader) Select(ctx context.Context, path string) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	if l.cancel != nil {
		l.cancel()
	}
	readCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	maxBytes := l.maxBytes
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		defer cancel()

		uri, err := readPhoto(readCtx, path, maxBytes)

		l.mu.Lock()
		defer l.mu.Unlock()
		if gen != l.gen {
			l.logger.Debug("discarding superseded photo", zap.String("path", path))
			return
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			l.logger.Warn("photo not loaded", zap.String("path", path), zap.Error(err))
			l.notifier.Error(l.store.Labels().Notifications.PhotoFailed, err)
			return
		}
		if err := l.store.SetPhoto(uri); err != nil {
			l.notifier.Error(l.store.Labels().Notifications.PhotoFailed, err)
		}
	}()
}

// Wait blocks until every started read has finished.
func (l *PhotoLoader) Wait() {
	l.wg.Wait()
}

// readPhoto returns the file as a data URI after checking its size and MIME type.
func readPhoto(ctx context.Context, path string, maxBytes int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &PhotoError{Path: path, Message: "unreadable file", Cause: err}
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return "", &PhotoError{Path: path, Message: "unreadable file", Cause: err}
	}
	if info.Size() > maxBytes {
		return "", &PhotoError{Path: path, Message: fmt.Sprintf("file is larger than %d bytes", maxBytes)}
	}

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return "", &PhotoError{Path: path, Message: "read failed", Cause: err}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	uri, err := EncodePhoto(data, maxBytes)
	if err != nil {
		var perr *PhotoError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return "", err
	}
	return uri, nil
}

// EncodePhoto returns image bytes as a data URI after checking their size and MIME type.
func EncodePhoto(data []byte, maxBytes int64) (string, error) {
	if int64(len(data)) > maxBytes {
		return "", &PhotoError{Message: fmt.Sprintf("file is larger than %d bytes", maxBytes)}
	}
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", &PhotoError{Message: fmt.Sprintf("not an image (%s)", mtype.String())}
	}
	return "data:" + mtype.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
