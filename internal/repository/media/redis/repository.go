package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/watchparty/server/internal/repository/media"
)

type repo struct {
	rc             *redis.Client
	logger         *slog.Logger
	maxScoreScript string
}

func NewRepo(rc *redis.Client, logger *slog.Logger) *repo {
	return &repo{
		rc:     rc,
		logger: logger,
		maxScoreScript: rc.ScriptLoad(context.Background(), `
			local maxScore = redis.call('ZREVRANGE', KEYS[1], 0, 0, 'WITHSCORES')
			local nextScore = 1
			if #maxScore > 0 then
				nextScore = tonumber(maxScore[2]) + 1
			end
			redis.call('ZADD', KEYS[1], nextScore, ARGV[1])
			return nextScore
		`).Val(),
	}
}

func (r repo) getEntryKey(roomName, title string) string {
	return "media:" + roomName + ":" + title
}

func (r repo) getLibraryKey(roomName string) string {
	return "room:" + roomName + ":library"
}

// SetEntry stores a library entry. Re-adding an existing title moves it
// to the top of the listing, matching an overwriting upload.
func (r repo) SetEntry(ctx context.Context, params *media.SetEntryParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)

	entry := media.Entry{
		Title:    params.Title,
		VideoURL: params.VideoURL,
		ImageURL: params.ImageURL,
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, r.getEntryKey(params.Room, params.Title), entry)
	pipe.EvalSha(ctx, r.maxScoreScript, []string{r.getLibraryKey(params.Room)}, params.Title)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

// GetEntries returns the room's library, newest upload first.
func (r repo) GetEntries(ctx context.Context, roomName string) ([]media.Entry, error) {
	r.logger.DebugContext(ctx, "called", "room", roomName)

	titles, err := r.rc.ZRevRange(ctx, r.getLibraryKey(roomName), 0, -1).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return nil, err
	}

	entries := make([]media.Entry, 0, len(titles))
	for _, title := range titles {
		fields, err := r.rc.HGetAll(ctx, r.getEntryKey(roomName, title)).Result()
		if err != nil {
			r.logger.DebugContext(ctx, "returned", "error", err)
			return nil, err
		}

		if len(fields) == 0 {
			continue
		}

		entries = append(entries, media.Entry{
			Title:    fields["title"],
			VideoURL: fields["video_url"],
			ImageURL: fields["image_url"],
		})
	}

	return entries, nil
}
