package inmemory

import (
	"log/slog"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watchparty/server/internal/repository/connection"
)

func TestAddAndGet(t *testing.T) {
	r := NewRepo(slog.Default())
	conn := connection.NewConn(&websocket.Conn{})

	require.NoError(t, r.Add(conn, "conn-a"))

	got, err := r.GetConn("conn-a")
	require.NoError(t, err)
	assert.Same(t, conn, got)

	connId, err := r.GetConnId(conn)
	require.NoError(t, err)
	assert.Equal(t, "conn-a", connId)
}

func TestAdd_Duplicate(t *testing.T) {
	r := NewRepo(slog.Default())
	conn := connection.NewConn(&websocket.Conn{})

	require.NoError(t, r.Add(conn, "conn-a"))
	assert.ErrorIs(t, r.Add(conn, "conn-a"), connection.ErrAlreadyExists)
	assert.ErrorIs(t, r.Add(connection.NewConn(&websocket.Conn{}), "conn-a"), connection.ErrAlreadyExists)
}

func TestRemoveByConnId(t *testing.T) {
	r := NewRepo(slog.Default())
	conn := connection.NewConn(&websocket.Conn{})

	require.NoError(t, r.Add(conn, "conn-a"))
	require.NoError(t, r.RemoveByConnId("conn-a"))

	_, err := r.GetConn("conn-a")
	assert.ErrorIs(t, err, connection.ErrNotFound)
	_, err = r.GetConnId(conn)
	assert.ErrorIs(t, err, connection.ErrNotFound)

	assert.ErrorIs(t, r.RemoveByConnId("conn-a"), connection.ErrNotFound)
}
