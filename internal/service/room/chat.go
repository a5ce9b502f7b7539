package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/watchparty/server/internal/repository/connection"
	"github.com/watchparty/server/internal/repository/room"
)

type SendMessageParams struct {
	SenderConnId string
	Text         string
}

type SendMessageResponse struct {
	// Conns is the entire room including the sender, so everyone
	// observes the same message ordering.
	Conns    []*connection.Conn
	Username string
}

// SendMessage resolves the sender's room and addresses the message to
// it. A sender with no session yet has no room to address; the caller
// drops the message.
func (s service) SendMessage(ctx context.Context, params *SendMessageParams) (SendMessageResponse, error) {
	sess, err := s.roomRepo.GetSession(ctx, params.SenderConnId)
	if err != nil {
		if errors.Is(err, room.ErrSessionNotFound) {
			return SendMessageResponse{}, ErrSessionNotFound
		}

		return SendMessageResponse{}, fmt.Errorf("failed to get session: %w", err)
	}

	conns, err := s.getRoomConns(ctx, sess.Room, "")
	if err != nil {
		return SendMessageResponse{}, fmt.Errorf("failed to get room conns: %w", err)
	}

	return SendMessageResponse{
		Conns:    conns,
		Username: sess.Username,
	}, nil
}
