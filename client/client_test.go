package client

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"datafeed/database"
	"datafeed/server"
	"datafeed/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, content string, withDB bool) (*httptest.Server, *storage.Store) {
	t.Helper()
	store, err := storage.New(t.TempDir(), storage.DefaultDataset)
	require.NoError(t, err)
	if content != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0755))
		require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0644))
	}

	deps := server.RouterDeps{Store: store, Status: func() string { return server.StatusRunning }}
	if withDB {
		db, err := database.SetupDatabase("sqlite", filepath.Join(t.TempDir(), "requests.db"), false)
		require.NoError(t, err)
		t.Cleanup(func() { database.Close(db) })
		deps.DB = db
	}

	ts := httptest.NewServer(server.BackendRouting(deps))
	t.Cleanup(ts.Close)
	return ts, store
}

func TestGetData(t *testing.T) {
	ts, _ := newTestServer(t, `{"a":1}`, false)

	raw, err := NewClient(ts.URL + "/").GetData()
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(raw))
}

func TestGetData_NotFound(t *testing.T) {
	ts, _ := newTestServer(t, "", false)

	_, err := NewClient(ts.URL).GetData()
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Data file not found", apiErr.Message)
}

func TestHealth(t *testing.T) {
	ts, store := newTestServer(t, `[]`, false)

	resp, err := NewClient(ts.URL).Health()
	require.NoError(t, err)
	assert.Equal(t, server.StatusRunning, resp.Status)
	assert.True(t, resp.Dataset.Present)
	assert.Equal(t, store.Path(), resp.Dataset.Path)
}

func TestRequestStats(t *testing.T) {
	ts, _ := newTestServer(t, `[]`, true)
	c := NewClient(ts.URL)

	_, err := c.GetData()
	require.NoError(t, err)

	resp, err := c.RequestStats(time.Now().Add(-time.Minute))
	require.NoError(t, err)
	require.Len(t, resp.Requests, 1)
	assert.Equal(t, "/getData", resp.Requests[0].Path)
}

func TestRequestStats_Disabled(t *testing.T) {
	ts, _ := newTestServer(t, `[]`, false)

	_, err := NewClient(ts.URL).RequestStats(time.Time{})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}
