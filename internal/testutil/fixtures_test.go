package testutil

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixturesAreValidJSON(t *testing.T) {
	for name, content := range InferenceDocuments() {
		t.Run(name, func(t *testing.T) {
			assert.True(t, json.Valid([]byte(content)))
		})
	}
}

func TestWriteTempFile(t *testing.T) {
	path := WriteTempFile(t, "spec.json", "{}")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
	assert.Equal(t, "spec.json", filepath.Base(path))
}

func TestWriteTempFiles(t *testing.T) {
	dir := WriteTempFiles(t, map[string]string{"a.json": "1", "nested/b.json": "2"})

	data, err := os.ReadFile(filepath.Join(dir, "nested", "b.json"))
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))
}

func TestSpecServer(t *testing.T) {
	srv := NewSpecServer(t, InferenceDocuments())

	req, err := http.NewRequest(http.MethodGet, srv.URLFor(CommonSpecName), nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "fixture-test")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, CommonSpec, string(body))
	assert.Equal(t, "fixture-test", srv.LastUserAgent())

	resp, err = http.Get(srv.URLFor("missing.json"))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 2, srv.Requests())
}
