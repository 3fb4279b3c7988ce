package health

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"datafeed/logging"
	"datafeed/storage"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWatcher struct {
	changes int64
	last    time.Time
}

func (f fakeWatcher) Changes() int64        { return f.changes }
func (f fakeWatcher) LastChange() time.Time { return f.last }

func decode(t *testing.T, rec *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestHealth_RunningWithoutDataset(t *testing.T) {
	store, err := storage.New(t.TempDir(), storage.DefaultDataset)
	require.NoError(t, err)
	h := &HealthHandler{Store: store}

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/_health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, StatusRunning, resp.Status)
	assert.False(t, resp.Dataset.Present)
	assert.Equal(t, store.Path(), resp.Dataset.Path)
	assert.Nil(t, resp.Watcher)
}

func TestHealth_ReportsDatasetAndWatcher(t *testing.T) {
	store, err := storage.New(t.TempDir(), storage.DefaultDataset)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"a":1}`), 0644))

	changed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	h := &HealthHandler{
		Store:   store,
		Watcher: fakeWatcher{changes: 3, last: changed},
		Status:  func() string { return StatusRunning },
	}

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/_health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.True(t, resp.Dataset.Present)
	assert.Equal(t, int64(7), resp.Dataset.Size)
	require.NotNil(t, resp.Watcher)
	assert.Equal(t, int64(3), resp.Watcher.Changes)
	require.NotNil(t, resp.Watcher.LastChange)
	assert.True(t, changed.Equal(*resp.Watcher.LastChange))
}

func TestHealth_NotRunning(t *testing.T) {
	store, err := storage.New(t.TempDir(), storage.DefaultDataset)
	require.NoError(t, err)
	h := &HealthHandler{
		Store:  store,
		Status: func() string { return "shutting_down" },
	}

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/_health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "shutting_down", decode(t, rec).Status)
}

func TestHealth_LogsStatFailure(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	var logs bytes.Buffer
	logging.SetupLoggerWithWriter(false, &logs)

	root := t.TempDir()
	// a regular file where the dataset's directory should be
	require.NoError(t, os.WriteFile(filepath.Join(root, "app"), []byte("x"), 0644))
	store, err := storage.New(root, storage.DefaultDataset)
	require.NoError(t, err)
	h := &HealthHandler{Store: store}

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/_health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode(t, rec).Dataset.Present)
	assert.Contains(t, logs.String(), "Unable to stat dataset")
	assert.Contains(t, logs.String(), `"component":"health"`)
}

func TestHealth_MissingDatasetIsNotLogged(t *testing.T) {
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	var logs bytes.Buffer
	logging.SetupLoggerWithWriter(false, &logs)

	store, err := storage.New(t.TempDir(), storage.DefaultDataset)
	require.NoError(t, err)
	h := &HealthHandler{Store: store}

	h.Health(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/_health", nil))

	assert.NotContains(t, logs.String(), "Unable to stat dataset")
}
