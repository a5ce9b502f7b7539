package controller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/watchparty/server/pkg/wsrouter"
)

// handle decodes the raw payload into the handler's input type.
func handle[T any](fn func(ctx context.Context, conn wsrouter.Conn, input T) error) wsrouter.HandlerFunc {
	return func(ctx context.Context, conn wsrouter.Conn, payload json.RawMessage) error {
		var input T
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &input); err != nil {
				return fmt.Errorf("%w: %v", ErrValidationError, err)
			}
		}

		return fn(ctx, conn, input)
	}
}

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()

	mux.Use(c.loggerWSMw())

	// presence
	mux.Handle("join_room", handle(c.handleJoinRoom))

	// playback
	mux.Handle("play_video", handle(c.handlePlayVideo))
	mux.Handle("pause_video", handle(c.handlePauseVideo))
	mux.Handle("seek_video", handle(c.handleSeekVideo))
	mux.Handle("change_movie", handle(c.handleChangeMovie))
	mux.Handle("sync_time", handle(c.handleSyncTime))

	// chat
	mux.Handle("send_message", handle(c.handleSendMessage))

	return mux
}
