package room

import (
	"context"

	"github.com/watchparty/server/internal/repository/connection"
)

// getConns resolves connection ids to live connections, skipping the
// excluded id and any member whose connection is already gone. A member
// racing a disconnect simply does not receive the broadcast.
func (s service) getConns(ctx context.Context, connIds []string, exclude string) []*connection.Conn {
	conns := make([]*connection.Conn, 0, len(connIds))
	for _, connId := range connIds {
		if connId == exclude {
			continue
		}

		conn, err := s.connRepo.GetConn(connId)
		if err != nil {
			s.logger.DebugContext(ctx, "skipping member without connection", "conn_id", connId)
			continue
		}

		conns = append(conns, conn)
	}

	return conns
}

func (s service) getRoomConns(ctx context.Context, roomName, exclude string) ([]*connection.Conn, error) {
	connIds, err := s.roomRepo.GetSessionIds(ctx, roomName)
	if err != nil {
		return nil, err
	}

	return s.getConns(ctx, connIds, exclude), nil
}

// anotherMember picks the synchronization anchor: the earliest-joined
// member other than the excluded one that still has a live connection.
func (s service) anotherMember(ctx context.Context, roomName, exclude string) (string, *connection.Conn) {
	connIds, err := s.roomRepo.GetSessionIds(ctx, roomName)
	if err != nil {
		s.logger.InfoContext(ctx, "failed to get session ids", "error", err)
		return "", nil
	}

	for _, connId := range connIds {
		if connId == exclude {
			continue
		}

		conn, err := s.connRepo.GetConn(connId)
		if err != nil {
			continue
		}

		return connId, conn
	}

	return "", nil
}
