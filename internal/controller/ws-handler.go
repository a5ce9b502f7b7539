package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/watchparty/server/internal/repository/connection"
	"github.com/watchparty/server/internal/service/room"
	"github.com/watchparty/server/pkg/ctxlogger"
	"github.com/watchparty/server/pkg/wsrouter"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	conn := connection.NewConn(ws)

	connId := uuid.NewString()
	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("conn_id", connId))
	ctx = context.WithValue(ctx, connIdCtxKey, connId)

	if err := c.roomService.Connect(ctx, &room.ConnectParams{
		Conn:   conn,
		ConnId: connId,
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to register connection", "error", err)
		conn.Close()
		return
	}
	defer c.disconnect(ctx, connId)

	c.logger.InfoContext(ctx, "connection established")

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(ctx, "connection closed", "error", err)
	}
}

// disconnect is idempotent with an explicit leave: a second removal of
// the same connection finds no session and broadcasts nothing.
func (c controller) disconnect(ctx context.Context, connId string) {
	resp, err := c.roomService.Disconnect(ctx, &room.DisconnectParams{ConnId: connId})
	if err != nil {
		if !errors.Is(err, room.ErrSessionNotFound) {
			c.logger.WarnContext(ctx, "failed to disconnect", "error", err)
		}
		return
	}

	c.broadcast(ctx, resp.Conns, &Output{
		Type: "user_disconnected",
		Payload: map[string]any{
			"peerId": resp.Session.PeerId,
		},
	})
	c.broadcast(ctx, resp.Conns, &Output{
		Type:    "notification",
		Payload: fmt.Sprintf("%s left.", resp.Session.Username),
	})
}

type JoinRoomInput struct {
	Room     string `json:"room" validate:"required"`
	PeerId   string `json:"peerId" validate:"required"`
	Username string `json:"username" validate:"required,max=32"`
}

func (c controller) handleJoinRoom(ctx context.Context, conn wsrouter.Conn, input JoinRoomInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
	}

	connId := c.getConnIdFromCtx(ctx)

	joinRoomResp, err := c.roomService.JoinRoom(ctx, &room.JoinRoomParams{
		ConnId:   connId,
		Room:     input.Room,
		Username: input.Username,
		PeerId:   input.PeerId,
	})
	if err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	c.broadcast(ctx, joinRoomResp.Conns, &Output{
		Type: "user_connected",
		Payload: map[string]any{
			"room":     input.Room,
			"peerId":   input.PeerId,
			"username": input.Username,
		},
	})
	c.broadcast(ctx, joinRoomResp.Conns, &Output{
		Type:    "notification",
		Payload: fmt.Sprintf("%s joined!", input.Username),
	})

	// ask one existing member for the current playback position so the
	// newcomer starts roughly in sync
	if joinRoomResp.AnchorConn != nil {
		c.writeToConn(ctx, joinRoomResp.AnchorConn, &Output{
			Type:    "ask_time",
			Payload: connId,
		})
	}

	return nil
}

type PlayVideoInput struct {
	Room string `json:"room" validate:"required"`
}

func (c controller) handlePlayVideo(ctx context.Context, conn wsrouter.Conn, input PlayVideoInput) error {
	playVideoResp, err := c.roomService.PlayVideo(ctx, &room.PlayVideoParams{
		SenderConnId: c.getConnIdFromCtx(ctx),
		Room:         input.Room,
	})
	if err != nil {
		return fmt.Errorf("failed to play video: %w", err)
	}

	c.broadcast(ctx, playVideoResp.Conns, &Output{Type: "play_video"})

	return nil
}

type PauseVideoInput struct {
	Room string `json:"room" validate:"required"`
}

func (c controller) handlePauseVideo(ctx context.Context, conn wsrouter.Conn, input PauseVideoInput) error {
	pauseVideoResp, err := c.roomService.PauseVideo(ctx, &room.PauseVideoParams{
		SenderConnId: c.getConnIdFromCtx(ctx),
		Room:         input.Room,
	})
	if err != nil {
		return fmt.Errorf("failed to pause video: %w", err)
	}

	c.broadcast(ctx, pauseVideoResp.Conns, &Output{Type: "pause_video"})

	return nil
}

type SeekVideoInput struct {
	Room string  `json:"room" validate:"required"`
	Time float64 `json:"time"`
}

func (c controller) handleSeekVideo(ctx context.Context, conn wsrouter.Conn, input SeekVideoInput) error {
	seekVideoResp, err := c.roomService.SeekVideo(ctx, &room.SeekVideoParams{
		SenderConnId: c.getConnIdFromCtx(ctx),
		Room:         input.Room,
		Time:         input.Time,
	})
	if err != nil {
		return fmt.Errorf("failed to seek video: %w", err)
	}

	c.broadcast(ctx, seekVideoResp.Conns, &Output{
		Type:    "seek_video",
		Payload: seekVideoResp.Time,
	})

	return nil
}

type ChangeMovieInput struct {
	Room  string `json:"room" validate:"required"`
	URL   string `json:"url" validate:"required"`
	Title string `json:"title"`
}

func (c controller) handleChangeMovie(ctx context.Context, conn wsrouter.Conn, input ChangeMovieInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
	}

	changeMovieResp, err := c.roomService.ChangeMovie(ctx, &room.ChangeMovieParams{
		SenderConnId: c.getConnIdFromCtx(ctx),
		Room:         input.Room,
		URL:          input.URL,
		Title:        input.Title,
	})
	if err != nil {
		return fmt.Errorf("failed to change movie: %w", err)
	}

	c.broadcast(ctx, changeMovieResp.Conns, &Output{
		Type: "change_movie",
		Payload: map[string]any{
			"room":  input.Room,
			"url":   input.URL,
			"title": input.Title,
		},
	})
	c.broadcast(ctx, changeMovieResp.Conns, &Output{
		Type:    "notification",
		Payload: fmt.Sprintf("%s changed the movie", changeMovieResp.Username),
	})

	return nil
}

type SyncTimeInput struct {
	Time       float64 `json:"time"`
	UserToSync string  `json:"userToSync" validate:"required"`
}

func (c controller) handleSyncTime(ctx context.Context, conn wsrouter.Conn, input SyncTimeInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("%w: %v", ErrValidationError, validationErrors)
	}

	syncTimeResp, err := c.roomService.SyncTime(ctx, &room.SyncTimeParams{
		SenderConnId: c.getConnIdFromCtx(ctx),
		Time:         input.Time,
		UserToSync:   input.UserToSync,
	})
	if err != nil {
		return fmt.Errorf("failed to sync time: %w", err)
	}

	return c.writeToConn(ctx, syncTimeResp.Conn, &Output{
		Type:    "get_time",
		Payload: syncTimeResp.Time,
	})
}

func (c controller) handleSendMessage(ctx context.Context, conn wsrouter.Conn, text string) error {
	sendMessageResp, err := c.roomService.SendMessage(ctx, &room.SendMessageParams{
		SenderConnId: c.getConnIdFromCtx(ctx),
		Text:         text,
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	c.broadcast(ctx, sendMessageResp.Conns, &Output{
		Type: "receive_message",
		Payload: map[string]any{
			"user": sendMessageResp.Username,
			"text": text,
		},
	})

	return nil
}
