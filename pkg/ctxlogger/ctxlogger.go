package ctxlogger

import (
	"context"
	"log/slog"
)

type ctxKey int

const attrsKey ctxKey = iota

// ContextHandler decorates a slog.Handler so that attributes attached
// to a context with AppendCtx show up on every record logged with that
// context. Request and connection scoped fields (request_id, conn_id,
// message_type) travel this way instead of being repeated at each call
// site.
type ContextHandler struct {
	slog.Handler
}

func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(attrsKey).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}

	return h.Handler.Handle(ctx, r)
}

// WithAttrs and WithGroup re-wrap so loggers derived via Logger.With
// keep reading context attributes.
func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithGroup(name)}
}

// AppendCtx returns a child context whose log records carry attr in
// addition to the attributes already accumulated on parent.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	existing, _ := parent.Value(attrsKey).([]slog.Attr)
	attrs := make([]slog.Attr, 0, len(existing)+1)
	attrs = append(attrs, existing...)
	attrs = append(attrs, attr)

	return context.WithValue(parent, attrsKey, attrs)
}
