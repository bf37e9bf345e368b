package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/josephgoksu/todowing/internal/todo"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestFileBackend_Formats(t *testing.T) {
	for _, format := range []string{"json", "yaml", "toml"} {
		t.Run(format, func(t *testing.T) {
			home := newTestEnv(t)
			t.Setenv("TODOWING_STORAGE_FORMAT", format)

			mustExecute(t, "add", "buy milk")

			path := filepath.Join(home, ".todowing", "todos."+format)
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(data), "buy milk")
			assert.FileExists(t, path+".checksum")

			assert.Equal(t, []string{"buy milk"}, taskTexts(listJSONTasks(t)))
		})
	}
}

func TestFileBackend_DirFlag(t *testing.T) {
	newTestEnv(t)
	dir := filepath.Join(t.TempDir(), "elsewhere")

	mustExecute(t, "--dir", dir, "add", "moved")

	assert.FileExists(t, filepath.Join(dir, "todos.json"))
	assert.Equal(t, []string{"moved"}, taskTexts(listJSONTasks(t, "--dir", dir)))
}

func TestFileBackend_CorruptFileLoadsEmpty(t *testing.T) {
	home := newTestEnv(t)
	dir := filepath.Join(home, ".todowing")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "todos.json"), []byte("{not json"), 0o644))

	out, _, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Add your first task above!")

	// The next save overwrites the unreadable blob.
	mustExecute(t, "add", "fresh start")
	assert.Equal(t, []string{"fresh start"}, taskTexts(listJSONTasks(t)))
}

func TestSQLiteBackend(t *testing.T) {
	home := newTestEnv(t)

	mustExecute(t, "--backend", "sqlite", "add", "buy milk")
	mustExecute(t, "--backend", "sqlite", "add", "write spec")

	assert.FileExists(t, filepath.Join(home, ".todowing", "todowing.db"))
	assert.Equal(t, []string{"write spec", "buy milk"}, taskTexts(listJSONTasks(t, "--backend", "sqlite")))
}

func TestRedisBackend(t *testing.T) {
	newTestEnv(t)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	t.Setenv("TODOWING_STORAGE_BACKEND", "redis")
	t.Setenv("TODOWING_STORAGE_REDIS_ADDR", mr.Addr())

	mustExecute(t, "add", "buy milk")

	raw, err := mr.Get("todowing:todos")
	require.NoError(t, err)
	assert.Contains(t, raw, "buy milk")
	assert.Equal(t, []string{"buy milk"}, taskTexts(listJSONTasks(t)))
}

func TestConfigCmd(t *testing.T) {
	home := newTestEnv(t)
	t.Setenv("TODOWING_STORAGE_KEY", "groceries")

	out := mustExecute(t, "config", "--json")
	var settings map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &settings))
	assert.Equal(t, "file", settings["storage.backend"])
	assert.Equal(t, "groceries", settings["storage.key"])
	assert.Equal(t, filepath.Join(home, ".todowing"), settings["storage.dir"])
	assert.Equal(t, "2s", settings["storage.timeout"])
	assert.Equal(t, "(none)", settings["config"])

	out = mustExecute(t, "config")
	assert.Contains(t, out, "storage.backend")
	assert.Contains(t, out, "groceries")
}

func TestWarnUnsaved(t *testing.T) {
	var buf bytes.Buffer

	assert.NoError(t, warnUnsaved(&buf, nil))
	assert.Empty(t, buf.String())

	err := &todo.PersistenceError{Op: "add", Err: errors.New("disk full")}
	assert.NoError(t, warnUnsaved(&buf, err))
	assert.Contains(t, buf.String(), "not saved (disk full)")

	assert.ErrorIs(t, warnUnsaved(&buf, todo.ErrEmptyText), todo.ErrEmptyText)
}

func TestPrintError(t *testing.T) {
	originalStderr := os.Stderr
	t.Cleanup(func() { os.Stderr = originalStderr })

	tests := []struct {
		name         string
		userMsg      string
		technicalErr error
		verbose      bool
		expectedOut  string
	}{
		{"normal mode without error", "User friendly message", nil, false, "User friendly message"},
		{"verbose mode with error", "User friendly message", errors.New("technical details"), true, "Error: technical details"},
		{"normal mode hides technical error", "User friendly message", errors.New("technical details"), false, "User friendly message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Set("verbose", tt.verbose)
			defer viper.Set("verbose", false)

			r, w, err := os.Pipe()
			require.NoError(t, err)
			os.Stderr = w

			PrintError(tt.userMsg, tt.technicalErr)

			_ = w.Close()
			var buf bytes.Buffer
			_, _ = buf.ReadFrom(r)
			os.Stderr = originalStderr

			assert.Contains(t, strings.TrimSpace(buf.String()), tt.expectedOut)
		})
	}
}
