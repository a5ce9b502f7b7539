package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watchparty/server/internal/service/media"
)

func uploadVideo(t *testing.T, srv *httptest.Server, roomName, filename string, content []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("room", roomName))
	part, err := w.CreateFormFile("videoFile", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	resp, err := http.Post(srv.URL+"/upload", w.FormDataContentType(), &body)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func listFiles(t *testing.T, srv *httptest.Server, roomName string) []media.Entry {
	t.Helper()

	resp, err := http.Get(srv.URL + "/files?room=" + roomName)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var entries []media.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))

	return entries
}

func TestUpload(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := uploadVideo(t, srv, "abc", "movie.mp4", []byte("mp4 bytes"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&status))
	assert.Equal(t, "ok", status["status"])

	entries := listFiles(t, srv, "abc")
	require.Len(t, entries, 1)
	assert.Equal(t, "movie", entries[0].Title)
	assert.Equal(t, "/media/abc/movie.mp4", entries[0].VideoURL)
	assert.Empty(t, entries[0].ImageURL)
}

func TestUpload_MissingVideo(t *testing.T) {
	srv, _ := newTestServer(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("room", "abc"))
	require.NoError(t, w.Close())

	resp, err := http.Post(srv.URL+"/upload", w.FormDataContentType(), &body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errResp map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "Video is required", errResp["error"])
}

func TestUpload_MissingRoom(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := uploadVideo(t, srv, "", "movie.mp4", []byte("mp4 bytes"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFiles_NewestFirst(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, name := range []string{"first.mp4", "second.mp4"} {
		resp := uploadVideo(t, srv, "abc", name, []byte("mp4 bytes"))
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	entries := listFiles(t, srv, "abc")
	require.Len(t, entries, 2)
	assert.Equal(t, "second", entries[0].Title)
	assert.Equal(t, "first", entries[1].Title)
}

func TestFiles_EmptyRoomReturnsEmptyList(t *testing.T) {
	srv, _ := newTestServer(t)

	assert.Empty(t, listFiles(t, srv, "nowhere"))
	assert.Empty(t, listFiles(t, srv, ""))
}

func TestMedia_ServesUploadedFile(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := uploadVideo(t, srv, "abc", "movie.mp4", []byte("mp4 bytes"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	entries := listFiles(t, srv, "abc")
	require.Len(t, entries, 1)

	got, err := http.Get(srv.URL + entries[0].VideoURL)
	require.NoError(t, err)
	defer got.Body.Close()

	require.Equal(t, http.StatusOK, got.StatusCode)
	content, err := io.ReadAll(got.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("mp4 bytes"), content)
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
