package app

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watchparty/server/internal/repository/connection"
	"github.com/watchparty/server/internal/repository/connection/inmemory"
	roomRedis "github.com/watchparty/server/internal/repository/room/redis"
	"github.com/watchparty/server/internal/service/room"
)

func TestWatchPartySession(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	s, _ := miniredis.Run()
	r := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	roomRepo := roomRedis.NewRepo(r, slog.Default())
	connRepo := inmemory.NewRepo(slog.Default())
	service := room.NewService(roomRepo, connRepo, &room.Config{}, slog.Default())

	ctx := context.Background()

	// alice opens the room
	aliceConn := connection.NewConn(&websocket.Conn{})
	err := service.Connect(ctx, &room.ConnectParams{Conn: aliceConn, ConnId: "conn-alice"})
	require.NoError(t, err)

	aliceJoin, err := service.JoinRoom(ctx, &room.JoinRoomParams{
		ConnId:   "conn-alice",
		Room:     "abc",
		Username: "alice",
		PeerId:   "peer-alice",
	})
	require.NoError(t, err)
	assert.Empty(t, aliceJoin.Conns, "first member must see an empty room")
	assert.Nil(t, aliceJoin.AnchorConn, "empty room has no anchor")
	t.Log("alice joined")

	// bob joins and is pointed at alice for the current position
	bobConn := connection.NewConn(&websocket.Conn{})
	err = service.Connect(ctx, &room.ConnectParams{Conn: bobConn, ConnId: "conn-bob"})
	require.NoError(t, err)

	bobJoin, err := service.JoinRoom(ctx, &room.JoinRoomParams{
		ConnId:   "conn-bob",
		Room:     "abc",
		Username: "bob",
		PeerId:   "peer-bob",
	})
	require.NoError(t, err)
	assert.Equal(t, len(bobJoin.Conns), 1, "bob must see one existing member")
	assert.Equal(t, "conn-alice", bobJoin.AnchorConnId, "earliest member is the anchor")
	assert.Same(t, aliceConn, bobJoin.AnchorConn)
	t.Log("bob joined")

	// alice reports her position to bob
	syncResp, err := service.SyncTime(ctx, &room.SyncTimeParams{
		SenderConnId: "conn-alice",
		Time:         127.5,
		UserToSync:   "conn-bob",
	})
	require.NoError(t, err)
	assert.Same(t, bobConn, syncResp.Conn)
	assert.Equal(t, 127.5, syncResp.Time)
	t.Log("time synced")

	// bob presses play; alice receives it
	playResp, err := service.PlayVideo(ctx, &room.PlayVideoParams{
		SenderConnId: "conn-bob",
		Room:         "abc",
	})
	require.NoError(t, err)
	require.Equal(t, len(playResp.Conns), 1)
	assert.Same(t, aliceConn, playResp.Conns[0])

	// alice's player applies the play and re-emits it; the echo is dropped
	_, err = service.PlayVideo(ctx, &room.PlayVideoParams{
		SenderConnId: "conn-alice",
		Room:         "abc",
	})
	assert.True(t, errors.Is(err, room.ErrEchoSuppressed), "relayed play must not bounce back")
	t.Log("play relayed")

	// chat reaches the whole room
	chatResp, err := service.SendMessage(ctx, &room.SendMessageParams{
		SenderConnId: "conn-bob",
		Text:         "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, len(chatResp.Conns), 2, "chat must include the sender")
	assert.Equal(t, "bob", chatResp.Username)
	t.Log("message sent")

	// alice leaves; bob is told
	discResp, err := service.Disconnect(ctx, &room.DisconnectParams{ConnId: "conn-alice"})
	require.NoError(t, err)
	assert.Equal(t, "peer-alice", discResp.Session.PeerId)
	require.Equal(t, len(discResp.Conns), 1)
	assert.Same(t, bobConn, discResp.Conns[0])
	t.Log("alice disconnected")

	t.Log(r.Keys(ctx, "*").Val())
}
