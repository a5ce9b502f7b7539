package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/teris-io/shortid"
	"github.com/watchparty/server/internal/service/room"
	"github.com/watchparty/server/pkg/ctxlogger"
	"github.com/watchparty/server/pkg/wsrouter"
)

func (c controller) requestIdMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := ctxlogger.AppendCtx(r.Context(), slog.String("request_id", shortid.MustGenerate()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (c controller) requestLoggingMw(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.logger.InfoContext(r.Context(), "request",
			"method", r.Method,
			"url", r.URL.String(),
			"remote_addr", r.RemoteAddr,
		)
		next.ServeHTTP(w, r)
	})
}

func (c controller) loggerWSMw() wsrouter.Middleware {
	return func(next wsrouter.HandlerFunc) wsrouter.HandlerFunc {
		return func(ctx context.Context, conn wsrouter.Conn, payload json.RawMessage) error {
			ctx = ctxlogger.AppendCtx(ctx, slog.String("message_type", wsrouter.GetMessageTypeFromCtx(ctx)))
			start := time.Now()

			err := next(ctx, conn, payload)

			switch {
			case err == nil:
			case errors.Is(err, room.ErrEchoSuppressed),
				errors.Is(err, room.ErrSessionNotFound),
				errors.Is(err, room.ErrRoomMismatch):
				// dropped events, not failures
				c.logger.DebugContext(ctx, "message dropped", "reason", err)
				err = nil
			case errors.Is(err, ErrValidationError):
				c.logger.InfoContext(ctx, "message rejected", "error", err)
			default:
				// registry or storage trouble; the sender's action did not
				// take effect, so tell them instead of failing silently
				c.logger.InfoContext(ctx, "message failed", "error", err)
				if writeErr := conn.WriteJSON(&Output{
					Type:    "notification",
					Payload: "something went wrong, please try again",
				}); writeErr != nil {
					c.logger.DebugContext(ctx, "failed to write failure notification", "error", writeErr)
				}
			}

			c.logger.DebugContext(ctx, "message handled",
				"processing_time_us", time.Since(start).Microseconds(),
			)

			return err
		}
	}
}
