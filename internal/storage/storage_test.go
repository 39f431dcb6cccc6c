package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseBackend runs the behaviour every backend must share.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, err := b.Get(ctx, KeyDocument)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, b.Set(ctx, KeyDocument, []byte(`{"personal":{"name":"Ana"}}`)))
	got, err := b.Get(ctx, KeyDocument)
	require.NoError(t, err)
	assert.JSONEq(t, `{"personal":{"name":"Ana"}}`, string(got))

	require.NoError(t, b.Set(ctx, KeyDocument, []byte(`{"personal":{"name":"Bea"}}`)))
	got, err = b.Get(ctx, KeyDocument)
	require.NoError(t, err)
	assert.JSONEq(t, `{"personal":{"name":"Bea"}}`, string(got))

	require.NoError(t, b.Delete(ctx, KeyDocument))
	_, err = b.Get(ctx, KeyDocument)
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.NoError(t, b.Delete(ctx, KeyDocument), "deleting a missing key is not an error")
}

func TestMemoryBackend(t *testing.T) {
	b := NewMemoryBackend()
	exerciseBackend(t, b)
	assert.Equal(t, 2, b.Writes())
}

func TestMemoryBackend_CopiesValues(t *testing.T) {
	b := NewMemoryBackend()
	ctx := context.Background()
	value := []byte(`[1]`)
	require.NoError(t, b.Set(ctx, KeySavedList, value))
	value[1] = '2'

	got, err := b.Get(ctx, KeySavedList)
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))
}

func TestFileBackend(t *testing.T) {
	b, err := NewFileBackend(filepath.Join(t.TempDir(), "nested", "data"))
	require.NoError(t, err)
	exerciseBackend(t, b)
}

func TestFileBackend_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	b, err := NewFileBackend(dir)
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, b.Set(ctx, KeyPreferences, []byte(`{}`)))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, KeyPreferences+".json", entries[0].Name())
}

func TestFileBackend_RejectsPathKeys(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	require.NoError(t, err)

	err = b.Set(context.Background(), "../escape", []byte(`{}`))
	assert.Error(t, err)
}

func TestNewFileBackend_RequiresDir(t *testing.T) {
	_, err := NewFileBackend("")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, Options{Kind: KindMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryBackend{}, b)

	b, err = Open(ctx, Options{DataDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileBackend{}, b)

	_, err = Open(ctx, Options{Kind: "redis"})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Kind: KindPostgres})
	assert.Error(t, err, "postgres requires a database URL")
}
