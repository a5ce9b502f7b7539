package controller

import (
	"context"

	"github.com/watchparty/server/internal/repository/connection"
)

// broadcast writes the message to every connection. Delivery is
// fire-and-forget: a failed write means that peer is gone and does not
// stop delivery to the rest.
func (c controller) broadcast(ctx context.Context, conns []*connection.Conn, out *Output) {
	for _, conn := range conns {
		if err := conn.WriteJSON(out); err != nil {
			c.logger.DebugContext(ctx, "failed to write to conn", "type", out.Type, "error", err)
		}
	}
}

func (c controller) writeToConn(ctx context.Context, conn *connection.Conn, out *Output) error {
	if err := conn.WriteJSON(out); err != nil {
		c.logger.DebugContext(ctx, "failed to write to conn", "type", out.Type, "error", err)
		return err
	}

	return nil
}
