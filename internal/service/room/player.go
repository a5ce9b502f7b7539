package room

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/watchparty/server/internal/repository/connection"
	"github.com/watchparty/server/internal/repository/room"
)

// relayControl validates a playback control event and resolves its
// recipients. Every recipient is marked suppressed for the control's
// window so its own re-emit of the applied event gets dropped.
func (s service) relayControl(ctx context.Context, senderConnId, roomName string, kind controlKind, window time.Duration) ([]*connection.Conn, error) {
	sess, err := s.roomRepo.GetSession(ctx, senderConnId)
	if err != nil {
		if errors.Is(err, room.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}

		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	if sess.Room != roomName {
		return nil, ErrRoomMismatch
	}

	if s.suppressor.Active(senderConnId, kind, window) {
		return nil, ErrEchoSuppressed
	}

	connIds, err := s.roomRepo.GetSessionIds(ctx, roomName)
	if err != nil {
		return nil, fmt.Errorf("failed to get session ids: %w", err)
	}

	conns := make([]*connection.Conn, 0, len(connIds))
	for _, connId := range connIds {
		if connId == senderConnId {
			continue
		}

		conn, err := s.connRepo.GetConn(connId)
		if err != nil {
			continue
		}

		s.suppressor.Mark(connId, kind, window)
		conns = append(conns, conn)
	}

	return conns, nil
}

type PlayVideoParams struct {
	SenderConnId string
	Room         string
}

type PlayVideoResponse struct {
	Conns []*connection.Conn
}

func (s service) PlayVideo(ctx context.Context, params *PlayVideoParams) (PlayVideoResponse, error) {
	conns, err := s.relayControl(ctx, params.SenderConnId, params.Room, controlPlayPause, s.playPauseWindow)
	if err != nil {
		return PlayVideoResponse{}, err
	}

	return PlayVideoResponse{Conns: conns}, nil
}

type PauseVideoParams struct {
	SenderConnId string
	Room         string
}

type PauseVideoResponse struct {
	Conns []*connection.Conn
}

func (s service) PauseVideo(ctx context.Context, params *PauseVideoParams) (PauseVideoResponse, error) {
	conns, err := s.relayControl(ctx, params.SenderConnId, params.Room, controlPlayPause, s.playPauseWindow)
	if err != nil {
		return PauseVideoResponse{}, err
	}

	return PauseVideoResponse{Conns: conns}, nil
}

type SeekVideoParams struct {
	SenderConnId string
	Room         string
	// Time is the media position, passed through unmodified.
	Time float64
}

type SeekVideoResponse struct {
	Conns []*connection.Conn
	Time  float64
}

func (s service) SeekVideo(ctx context.Context, params *SeekVideoParams) (SeekVideoResponse, error) {
	conns, err := s.relayControl(ctx, params.SenderConnId, params.Room, controlSeek, s.seekWindow)
	if err != nil {
		return SeekVideoResponse{}, err
	}

	return SeekVideoResponse{Conns: conns, Time: params.Time}, nil
}

type ChangeMovieParams struct {
	SenderConnId string
	Room         string
	URL          string
	Title        string
}

type ChangeMovieResponse struct {
	// Conns is the entire room, sender included.
	Conns    []*connection.Conn
	Username string
}

func (s service) ChangeMovie(ctx context.Context, params *ChangeMovieParams) (ChangeMovieResponse, error) {
	sess, err := s.roomRepo.GetSession(ctx, params.SenderConnId)
	if err != nil {
		if errors.Is(err, room.ErrSessionNotFound) {
			return ChangeMovieResponse{}, ErrSessionNotFound
		}

		return ChangeMovieResponse{}, fmt.Errorf("failed to get session: %w", err)
	}

	if sess.Room != params.Room {
		return ChangeMovieResponse{}, ErrRoomMismatch
	}

	conns, err := s.getRoomConns(ctx, params.Room, "")
	if err != nil {
		return ChangeMovieResponse{}, fmt.Errorf("failed to get room conns: %w", err)
	}

	return ChangeMovieResponse{
		Conns:    conns,
		Username: sess.Username,
	}, nil
}

type SyncTimeParams struct {
	SenderConnId string
	Time         float64
	// UserToSync is the connection id of the member that requested the
	// current position.
	UserToSync string
}

type SyncTimeResponse struct {
	Conn *connection.Conn
	Time float64
}

// SyncTime routes an anchor's position report to the requester. The
// requester applies it as a seek, so it is marked suppressed.
func (s service) SyncTime(ctx context.Context, params *SyncTimeParams) (SyncTimeResponse, error) {
	senderSess, err := s.roomRepo.GetSession(ctx, params.SenderConnId)
	if err != nil {
		if errors.Is(err, room.ErrSessionNotFound) {
			return SyncTimeResponse{}, ErrSessionNotFound
		}

		return SyncTimeResponse{}, fmt.Errorf("failed to get session: %w", err)
	}

	requesterSess, err := s.roomRepo.GetSession(ctx, params.UserToSync)
	if err != nil {
		if errors.Is(err, room.ErrSessionNotFound) {
			return SyncTimeResponse{}, ErrSessionNotFound
		}

		return SyncTimeResponse{}, fmt.Errorf("failed to get session: %w", err)
	}

	if senderSess.Room != requesterSess.Room {
		return SyncTimeResponse{}, ErrRoomMismatch
	}

	conn, err := s.connRepo.GetConn(params.UserToSync)
	if err != nil {
		return SyncTimeResponse{}, ErrSessionNotFound
	}

	s.suppressor.Mark(params.UserToSync, controlSeek, s.seekWindow)

	return SyncTimeResponse{Conn: conn, Time: params.Time}, nil
}
