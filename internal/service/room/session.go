package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/watchparty/server/internal/repository/connection"
	"github.com/watchparty/server/internal/repository/room"
)

type ConnectParams struct {
	Conn   *connection.Conn
	ConnId string
}

// Connect registers a live connection before any room is joined.
func (s service) Connect(ctx context.Context, params *ConnectParams) error {
	if err := s.connRepo.Add(params.Conn, params.ConnId); err != nil {
		s.logger.InfoContext(ctx, "failed to add connection", "error", err)
		return fmt.Errorf("failed to add connection: %w", err)
	}

	return nil
}

type JoinRoomParams struct {
	ConnId   string
	Room     string
	Username string
	PeerId   string
}

type JoinRoomResponse struct {
	Session Session
	// Conns are the members present before the join.
	Conns []*connection.Conn
	// AnchorConnId/AnchorConn identify the member asked for the current
	// playback position. Nil when the room was empty.
	AnchorConnId string
	AnchorConn   *connection.Conn
}

func (s service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	existingIds, err := s.roomRepo.GetSessionIds(ctx, params.Room)
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get session ids: %w", err)
	}

	if err := s.roomRepo.SetSession(ctx, &room.SetSessionParams{
		ConnId:   params.ConnId,
		Username: params.Username,
		PeerId:   params.PeerId,
		Room:     params.Room,
	}); err != nil {
		if errors.Is(err, room.ErrSessionAlreadyExists) {
			return JoinRoomResponse{}, ErrAlreadyJoined
		}

		return JoinRoomResponse{}, fmt.Errorf("failed to set session: %w", err)
	}

	resp := JoinRoomResponse{
		Session: Session{
			ConnId:   params.ConnId,
			Username: params.Username,
			PeerId:   params.PeerId,
			Room:     params.Room,
		},
		Conns: s.getConns(ctx, existingIds, params.ConnId),
	}

	if len(existingIds) > 0 {
		resp.AnchorConnId, resp.AnchorConn = s.anotherMember(ctx, params.Room, params.ConnId)
	}

	return resp, nil
}

type DisconnectParams struct {
	ConnId string
}

type DisconnectResponse struct {
	Session Session
	// Conns are the members remaining in the room.
	Conns []*connection.Conn
}

// Disconnect removes the connection and its session. It is idempotent:
// a second call for the same connection id returns ErrSessionNotFound
// and the caller broadcasts nothing.
func (s service) Disconnect(ctx context.Context, params *DisconnectParams) (DisconnectResponse, error) {
	if err := s.connRepo.RemoveByConnId(params.ConnId); err != nil {
		s.logger.DebugContext(ctx, "connection already removed", "conn_id", params.ConnId)
	}

	s.suppressor.Forget(params.ConnId)

	sess, err := s.roomRepo.GetSession(ctx, params.ConnId)
	if err != nil {
		if errors.Is(err, room.ErrSessionNotFound) {
			return DisconnectResponse{}, ErrSessionNotFound
		}

		return DisconnectResponse{}, fmt.Errorf("failed to get session: %w", err)
	}

	if err := s.roomRepo.RemoveSession(ctx, &room.RemoveSessionParams{
		ConnId: params.ConnId,
		Room:   sess.Room,
	}); err != nil {
		if errors.Is(err, room.ErrSessionNotFound) {
			return DisconnectResponse{}, ErrSessionNotFound
		}

		return DisconnectResponse{}, fmt.Errorf("failed to remove session: %w", err)
	}

	conns, err := s.getRoomConns(ctx, sess.Room, params.ConnId)
	if err != nil {
		return DisconnectResponse{}, fmt.Errorf("failed to get room conns: %w", err)
	}

	return DisconnectResponse{
		Session: Session{
			ConnId:   params.ConnId,
			Username: sess.Username,
			PeerId:   sess.PeerId,
			Room:     sess.Room,
		},
		Conns: conns,
	}, nil
}

// GetMembers returns a snapshot of the room's sessions in join order.
func (s service) GetMembers(ctx context.Context, roomName string) ([]Session, error) {
	connIds, err := s.roomRepo.GetSessionIds(ctx, roomName)
	if err != nil {
		return nil, fmt.Errorf("failed to get session ids: %w", err)
	}

	members := make([]Session, 0, len(connIds))
	for _, connId := range connIds {
		sess, err := s.roomRepo.GetSession(ctx, connId)
		if err != nil {
			if errors.Is(err, room.ErrSessionNotFound) {
				continue
			}

			return nil, fmt.Errorf("failed to get session: %w", err)
		}

		members = append(members, Session{
			ConnId:   connId,
			Username: sess.Username,
			PeerId:   sess.PeerId,
			Room:     sess.Room,
		})
	}

	return members, nil
}
