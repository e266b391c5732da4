package download

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meshare/meshare/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleSizeReportsFileLength(t *testing.T) {
	dir, cleanup, err := testutil.TempDir("download")
	require.NoError(t, err)
	defer cleanup()

	_, err = testutil.CreateTestFile(dir, "movie.mp4", 4096, true)
	require.NoError(t, err)

	srv := httptest.NewServer(NewServer(dir).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/size?name=movie.mp4")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out struct {
		Size int64 `json:"size"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.EqualValues(t, 4096, out.Size)
}

func TestHandleChunkServesRequestedRange(t *testing.T) {
	dir, cleanup, err := testutil.TempDir("download")
	require.NoError(t, err)
	defer cleanup()

	path, err := testutil.CreateTestFile(dir, "song.mp3", 1000, true)
	require.NoError(t, err)
	require.NoError(t, testutil.VerifyFileSize(path, 1000))

	srv := httptest.NewServer(NewServer(dir).Handler())
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/chunk?name=song.mp3", nil)
	require.NoError(t, err)
	req.Header.Set("Range", "bytes=100-199")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusPartialContent, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Len(t, body, 100)

	want, err := testutil.ReadFileChunk(path, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, want, body)
}

func TestHandleChunkRejectsPathEscape(t *testing.T) {
	dir, cleanup, err := testutil.TempDir("download")
	require.NoError(t, err)
	defer cleanup()

	srv := httptest.NewServer(NewServer(dir).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/chunk?name=../../etc/passwd")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
