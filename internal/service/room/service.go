package room

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/watchparty/server/internal/repository/connection"
	"github.com/watchparty/server/internal/repository/room"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrAlreadyJoined   = errors.New("already joined")
	ErrRoomMismatch    = errors.New("room mismatch")
	ErrEchoSuppressed  = errors.New("control event suppressed")
)

const (
	defaultPlayPauseSuppressWindow = 500 * time.Millisecond
	defaultSeekSuppressWindow      = 1000 * time.Millisecond
)

type iRoomRepo interface {
	SetSession(context.Context, *room.SetSessionParams) error
	GetSession(context.Context, string) (room.Session, error)
	RemoveSession(context.Context, *room.RemoveSessionParams) error
	GetSessionIds(context.Context, string) ([]string, error)
}

type iConnRepo interface {
	Add(*connection.Conn, string) error
	RemoveByConnId(string) error
	GetConn(string) (*connection.Conn, error)
}

type Config struct {
	PlayPauseSuppressWindow time.Duration
	SeekSuppressWindow      time.Duration
	// Now is the clock used for suppression deadlines. Defaults to
	// time.Now; tests inject a fake.
	Now func() time.Time
}

type service struct {
	roomRepo        iRoomRepo
	connRepo        iConnRepo
	suppressor      *suppressor
	playPauseWindow time.Duration
	seekWindow      time.Duration
	logger          *slog.Logger
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, cfg *Config, logger *slog.Logger) *service {
	s := service{
		roomRepo:        roomRepo,
		connRepo:        connRepo,
		playPauseWindow: cfg.PlayPauseSuppressWindow,
		seekWindow:      cfg.SeekSuppressWindow,
		logger:          logger,
	}

	if s.playPauseWindow <= 0 {
		s.playPauseWindow = defaultPlayPauseSuppressWindow
	}
	if s.seekWindow <= 0 {
		s.seekWindow = defaultSeekSuppressWindow
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	s.suppressor = newSuppressor(now)

	return &s
}
