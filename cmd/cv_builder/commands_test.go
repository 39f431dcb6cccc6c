package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/cv-builder/internal/export"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBackup = `{
  "personal": {"name": "Luz", "lastName": "Díaz", "role": "Backend Engineer", "email": "luz@example.com"},
  "skills": ["Go", "PostgreSQL"]
}`

// resetFlags restores every flag to its default so that commands run in one process stay independent.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI in-process against dir and returns stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(append([]string{"--data-dir", dir, "--storage", "file"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestShow_EmptyProfile(t *testing.T) {
	out, err := run(t, t.TempDir(), "show")
	require.NoError(t, err)
	assert.Contains(t, out, "CV DOCUMENT")
	assert.Contains(t, out, "(no name)")
}

func TestImport_PersistsAcrossInvocations(t *testing.T) {
	dir := t.TempDir()
	backup := writeFile(t, t.TempDir(), "backup.json", sampleBackup)

	out, err := run(t, dir, "import", backup)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported")

	out, err = run(t, dir, "show", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Luz"`)
	assert.Contains(t, out, `"PostgreSQL"`)

	out, err = run(t, dir, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Luz Díaz")
}

func TestImport_RejectsInvalidBackup(t *testing.T) {
	dir := t.TempDir()
	backup := writeFile(t, t.TempDir(), "bad.json", `{"experience": []}`)

	_, err := run(t, dir, "import", backup)
	require.Error(t, err)

	_, err = run(t, dir, "import", filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	outDir := t.TempDir()
	_, err := run(t, dir, "import", writeFile(t, t.TempDir(), "backup.json", sampleBackup))
	require.NoError(t, err)

	t.Run("json", func(t *testing.T) {
		out, err := run(t, dir, "export", "json", "--out", outDir)
		require.NoError(t, err)
		path := strings.TrimSpace(out)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Luz")
	})

	t.Run("docx", func(t *testing.T) {
		out, err := run(t, dir, "export", "docx", "--out", outDir)
		require.NoError(t, err)
		path := strings.TrimSpace(out)
		assert.Equal(t, ".docx", filepath.Ext(path))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(data, []byte("PK")))
	})

	t.Run("pdf without browser", func(t *testing.T) {
		_, err := run(t, dir, "export", "pdf", "--out", outDir)
		require.ErrorIs(t, err, export.ErrNoPrinter)
	})

	t.Run("all", func(t *testing.T) {
		out, err := run(t, dir, "export", "all", "--out", filepath.Join(outDir, "all"))
		require.NoError(t, err)
		assert.Len(t, strings.Fields(out), 2)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := run(t, dir, "export", "odt")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown format")
	})
}

func TestSaved(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "import", writeFile(t, t.TempDir(), "backup.json", sampleBackup))
	require.NoError(t, err)

	out, err := run(t, dir, "saved", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved CVs")

	out, err = run(t, dir, "saved", "save", "Backend")
	require.NoError(t, err)
	fields := strings.Fields(out)
	id := fields[len(fields)-1]

	out, err = run(t, dir, "saved", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Total saved: 1")
	assert.Contains(t, out, "Backend")

	_, err = run(t, dir, "reset", "--yes")
	require.NoError(t, err)
	out, err = run(t, dir, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "(no name)")

	out, err = run(t, dir, "saved", "load", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded")
	out, err = run(t, dir, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Luz Díaz")

	_, err = run(t, dir, "saved", "update", id)
	require.NoError(t, err)

	_, err = run(t, dir, "saved", "delete", id)
	require.NoError(t, err)
	_, err = run(t, dir, "saved", "load", id)
	require.Error(t, err)

	_, err = run(t, dir, "saved", "save", "   ")
	require.Error(t, err)
}

func TestReset_RequiresConfirmation(t *testing.T) {
	_, err := run(t, t.TempDir(), "reset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--yes")
}

func TestTemplates(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "TEMPLATES")
	assert.Contains(t, out, "* classic")

	out, err = run(t, dir, "templates", "--use", "modern")
	require.NoError(t, err)
	assert.Contains(t, out, "* modern")

	out, err = run(t, dir, "prefs")
	require.NoError(t, err)
	assert.Contains(t, out, `"templateId": "modern"`)

	_, err = run(t, dir, "templates", "--use", "baroque")
	require.Error(t, err)
}

func TestPrefs(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "prefs", "--language", "en", "--accent", "#ff0000", "--dark")
	require.NoError(t, err)
	assert.Contains(t, out, `"language": "en"`)
	assert.Contains(t, out, `"accentColor": "#ff0000"`)
	assert.Contains(t, out, `"darkMode": true`)

	out, err = run(t, dir, "prefs")
	require.NoError(t, err)
	assert.Contains(t, out, `"darkMode": true`)

	_, err = run(t, dir, "prefs", "--language", "de")
	require.Error(t, err)
	_, err = run(t, dir, "prefs", "--font-size", "40")
	require.Error(t, err)
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "import", writeFile(t, t.TempDir(), "backup.json", sampleBackup))
	require.NoError(t, err)

	out, err := run(t, dir, "render")
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, "Luz")

	page := filepath.Join(t.TempDir(), "preview.html")
	out, err = run(t, dir, "render", "--out", page)
	require.NoError(t, err)
	assert.Contains(t, out, "Pages: 1")
	data, err := os.ReadFile(page)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Backend Engineer")

	out, err = run(t, dir, "render", "--print")
	require.NoError(t, err)
	assert.Contains(t, out, "Luz")
}

func TestPrompt(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "import", writeFile(t, t.TempDir(), "backup.json", sampleBackup))
	require.NoError(t, err)

	out, err := run(t, dir, "prompt")
	require.NoError(t, err)
	assert.Contains(t, out, "Backend Engineer")
}

func TestPhoto(t *testing.T) {
	dir := t.TempDir()
	png := writeFile(t, t.TempDir(), "me.png", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

	_, err := run(t, dir, "photo", png)
	require.NoError(t, err)
	out, err := run(t, dir, "show", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, "data:image/png;base64,")

	_, err = run(t, dir, "photo", "--clear")
	require.NoError(t, err)
	out, err = run(t, dir, "show", "--json")
	require.NoError(t, err)
	assert.NotContains(t, out, "data:image/png")

	notImage := writeFile(t, t.TempDir(), "notes.txt", "just text")
	_, err = run(t, dir, "photo", notImage)
	require.Error(t, err)

	_, err = run(t, dir, "photo")
	require.Error(t, err)
	_, err = run(t, dir, "photo", png, "--clear")
	require.Error(t, err)
}

func TestConfigErrors(t *testing.T) {
	_, err := run(t, t.TempDir(), "--storage", "floppy", "show")
	require.Error(t, err)

	t.Setenv("CVB_TEMPLATE", "baroque")
	_, err = run(t, t.TempDir(), "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown template")
}
