package media

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mediaRedis "github.com/watchparty/server/internal/repository/media/redis"
)

type fakeBlobStore struct {
	saved map[string]string
}

func (f *fakeBlobStore) Save(ctx context.Context, room, name string, src io.Reader) (string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}

	url := "/media/" + room + "/" + name
	f.saved[url] = string(data)
	return url, nil
}

func newTestService(t *testing.T) (*service, *fakeBlobStore) {
	t.Helper()

	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})

	blobStore := &fakeBlobStore{saved: make(map[string]string)}
	svc := NewService(mediaRedis.NewRepo(rc, slog.Default()), blobStore, slog.Default())

	return svc, blobStore
}

func TestUpload_VideoOnly(t *testing.T) {
	svc, blobStore := newTestService(t)

	resp, err := svc.Upload(context.Background(), &UploadParams{
		Room:      "abc",
		VideoName: "movie.mp4",
		Video:     strings.NewReader("video-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "movie", resp.Entry.Title)
	assert.Equal(t, "/media/abc/movie.mp4", resp.Entry.VideoURL)
	assert.Empty(t, resp.Entry.ImageURL)
	assert.Equal(t, "video-bytes", blobStore.saved["/media/abc/movie.mp4"])
}

func TestUpload_WithPoster(t *testing.T) {
	svc, _ := newTestService(t)

	resp, err := svc.Upload(context.Background(), &UploadParams{
		Room:      "abc",
		VideoName: "movie.mp4",
		Video:     strings.NewReader("video-bytes"),
		ImageName: "movie.jpg",
		Image:     strings.NewReader("image-bytes"),
	})
	require.NoError(t, err)
	assert.Equal(t, "/media/abc/movie.jpg", resp.Entry.ImageURL)
}

func TestUpload_MissingVideo(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Upload(context.Background(), &UploadParams{
		Room:      "abc",
		ImageName: "poster.jpg",
		Image:     strings.NewReader("image-bytes"),
	})
	assert.ErrorIs(t, err, ErrVideoRequired)
}

func TestUpload_MissingRoom(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Upload(context.Background(), &UploadParams{
		VideoName: "movie.mp4",
		Video:     strings.NewReader("video-bytes"),
	})
	assert.ErrorIs(t, err, ErrRoomRequired)
}

func TestList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"one.mp4", "two.mp4"} {
		_, err := svc.Upload(ctx, &UploadParams{
			Room:      "abc",
			VideoName: name,
			Video:     strings.NewReader("bytes"),
		})
		require.NoError(t, err)
	}

	entries, err := svc.List(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "two", entries[0].Title)
	assert.Equal(t, "one", entries[1].Title)
}

func TestList_MissingRoom(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.List(context.Background(), "")
	assert.ErrorIs(t, err, ErrRoomRequired)
}
