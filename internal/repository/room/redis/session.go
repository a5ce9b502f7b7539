package redis

import (
	"context"

	"github.com/watchparty/server/internal/repository/room"
)

func (r repo) getSessionKey(connId string) string {
	return "session:" + connId
}

func (r repo) getMemberListKey(roomName string) string {
	return "room:" + roomName + ":memberlist"
}

func (r repo) SetSession(ctx context.Context, params *room.SetSessionParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)

	sessionKey := r.getSessionKey(params.ConnId)

	exists, err := r.rc.Exists(ctx, sessionKey).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}
	if exists != 0 {
		r.logger.DebugContext(ctx, "returned", "error", room.ErrSessionAlreadyExists)
		return room.ErrSessionAlreadyExists
	}

	session := room.Session{
		Username: params.Username,
		PeerId:   params.PeerId,
		Room:     params.Room,
	}

	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, sessionKey, session)
	pipe.Expire(ctx, sessionKey, sessionExpiration)

	memberListKey := r.getMemberListKey(params.Room)
	r.addWithIncrement(ctx, pipe, memberListKey, params.ConnId)
	pipe.Expire(ctx, memberListKey, sessionExpiration)

	if err := r.executePipe(ctx, pipe); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	return nil
}

func (r repo) GetSession(ctx context.Context, connId string) (room.Session, error) {
	r.logger.DebugContext(ctx, "called", "conn_id", connId)

	fields, err := r.rc.HGetAll(ctx, r.getSessionKey(connId)).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return room.Session{}, err
	}

	if len(fields) == 0 {
		r.logger.DebugContext(ctx, "returned", "error", room.ErrSessionNotFound)
		return room.Session{}, room.ErrSessionNotFound
	}

	return room.Session{
		Username: fields["username"],
		PeerId:   fields["peer_id"],
		Room:     fields["room"],
	}, nil
}

// RemoveSession deletes the session record and its member list entry.
// Removing an absent session returns ErrSessionNotFound so the caller
// can treat a double removal as a no-op.
func (r repo) RemoveSession(ctx context.Context, params *room.RemoveSessionParams) error {
	r.logger.DebugContext(ctx, "called", "params", params)

	if err := r.rc.ZRem(ctx, r.getMemberListKey(params.Room), params.ConnId).Err(); err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	res, err := r.rc.Del(ctx, r.getSessionKey(params.ConnId)).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return err
	}

	if res == 0 {
		r.logger.DebugContext(ctx, "returned", "error", room.ErrSessionNotFound)
		return room.ErrSessionNotFound
	}

	return nil
}

// GetSessionIds returns the room's connection ids in join order.
func (r repo) GetSessionIds(ctx context.Context, roomName string) ([]string, error) {
	r.logger.DebugContext(ctx, "called", "room", roomName)

	ids, err := r.rc.ZRange(ctx, r.getMemberListKey(roomName), 0, -1).Result()
	if err != nil {
		r.logger.DebugContext(ctx, "returned", "error", err)
		return nil, err
	}

	return ids, nil
}
