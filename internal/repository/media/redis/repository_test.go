package redis

import (
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watchparty/server/internal/repository/media"
)

func newTestRepo(t *testing.T) *repo {
	t.Helper()

	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})

	return NewRepo(rc, slog.Default())
}

func TestSetEntry_GetEntries(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetEntry(ctx, &media.SetEntryParams{
		Room:     "abc",
		Title:    "first",
		VideoURL: "/media/abc/first.mp4",
		ImageURL: "/media/abc/first.jpg",
	}))
	require.NoError(t, r.SetEntry(ctx, &media.SetEntryParams{
		Room:     "abc",
		Title:    "second",
		VideoURL: "/media/abc/second.mp4",
	}))

	entries, err := r.GetEntries(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// newest first
	assert.Equal(t, "second", entries[0].Title)
	assert.Equal(t, "/media/abc/second.mp4", entries[0].VideoURL)
	assert.Empty(t, entries[0].ImageURL)
	assert.Equal(t, "first", entries[1].Title)
	assert.Equal(t, "/media/abc/first.jpg", entries[1].ImageURL)
}

func TestSetEntry_OverwriteMovesToTop(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetEntry(ctx, &media.SetEntryParams{
		Room:     "abc",
		Title:    "movie",
		VideoURL: "/media/abc/movie-v1.mp4",
	}))
	require.NoError(t, r.SetEntry(ctx, &media.SetEntryParams{
		Room:     "abc",
		Title:    "other",
		VideoURL: "/media/abc/other.mp4",
	}))
	require.NoError(t, r.SetEntry(ctx, &media.SetEntryParams{
		Room:     "abc",
		Title:    "movie",
		VideoURL: "/media/abc/movie-v2.mp4",
	}))

	entries, err := r.GetEntries(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, entries, 2, "re-upload must replace, not duplicate")
	assert.Equal(t, "movie", entries[0].Title)
	assert.Equal(t, "/media/abc/movie-v2.mp4", entries[0].VideoURL)
}

func TestGetEntries_EmptyRoom(t *testing.T) {
	r := newTestRepo(t)

	entries, err := r.GetEntries(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGetEntries_RoomsAreIsolated(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetEntry(ctx, &media.SetEntryParams{
		Room:     "abc",
		Title:    "movie",
		VideoURL: "/media/abc/movie.mp4",
	}))

	entries, err := r.GetEntries(ctx, "xyz")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
