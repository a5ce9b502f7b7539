package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/watchparty/server/internal/service/media"
	"github.com/watchparty/server/internal/service/room"
	"github.com/watchparty/server/pkg/validator"
	"github.com/watchparty/server/pkg/wsrouter"
)

type iRoomService interface {
	Connect(context.Context, *room.ConnectParams) error
	Disconnect(context.Context, *room.DisconnectParams) (room.DisconnectResponse, error)
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	PlayVideo(context.Context, *room.PlayVideoParams) (room.PlayVideoResponse, error)
	PauseVideo(context.Context, *room.PauseVideoParams) (room.PauseVideoResponse, error)
	SeekVideo(context.Context, *room.SeekVideoParams) (room.SeekVideoResponse, error)
	ChangeMovie(context.Context, *room.ChangeMovieParams) (room.ChangeMovieResponse, error)
	SyncTime(context.Context, *room.SyncTimeParams) (room.SyncTimeResponse, error)
	SendMessage(context.Context, *room.SendMessageParams) (room.SendMessageResponse, error)
}

type iMediaService interface {
	Upload(context.Context, *media.UploadParams) (media.UploadResponse, error)
	List(context.Context, string) ([]media.Entry, error)
}

type Config struct {
	// MediaDir is served under /media/ for stored uploads.
	MediaDir      string
	MaxUploadSize int64
}

type controller struct {
	roomService   iRoomService
	mediaService  iMediaService
	upgrader      websocket.Upgrader
	validate      *validator.Validator
	wsmux         *wsrouter.WSRouter
	mediaDir      string
	maxUploadSize int64
	logger        *slog.Logger
}

func NewController(roomService iRoomService, mediaService iMediaService, cfg *Config, logger *slog.Logger) *controller {
	c := controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService:   roomService,
		mediaService:  mediaService,
		validate:      validator.NewValidator(),
		mediaDir:      cfg.MediaDir,
		maxUploadSize: cfg.MaxUploadSize,
		logger:        logger,
	}

	c.wsmux = c.getWSRouter()

	return &c
}
