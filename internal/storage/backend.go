// Package storage provides the durable local key/value backends that hold the CV state.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// Keys under which the store persists its state.
const (
	KeyDocument    = "cv-data"
	KeyPreferences = "cv-preferences"
	KeySavedList   = "cv-saved-list"
)

// ErrNotFound is returned by Get when a key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// Backend is a durable string-keyed store of JSON values.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Kind names a backend implementation in configuration.
type Kind string

// Backend kinds.
const (
	KindFile     Kind = "file"
	KindPostgres Kind = "postgres"
	KindMemory   Kind = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Kind        Kind
	DataDir     string
	DatabaseURL string
}

// Open creates the backend described by opts.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Kind {
	case KindFile, "":
		return NewFileBackend(opts.DataDir)
	case KindPostgres:
		return ConnectPostgres(ctx, opts.DatabaseURL)
	case KindMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Kind)
	}
}
