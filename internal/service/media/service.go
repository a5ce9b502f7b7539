package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/watchparty/server/internal/repository/media"
)

var (
	ErrRoomRequired  = errors.New("room is required")
	ErrVideoRequired = errors.New("video is required")
)

type iMediaRepo interface {
	SetEntry(context.Context, *media.SetEntryParams) error
	GetEntries(context.Context, string) ([]media.Entry, error)
}

// iBlobStore is the object-store contract. The disk implementation
// stands in for a cloud store; Save returns the serving URL.
type iBlobStore interface {
	Save(ctx context.Context, room, name string, src io.Reader) (string, error)
}

type Entry struct {
	VideoURL string `json:"video"`
	ImageURL string `json:"image"`
	Title    string `json:"title"`
}

type service struct {
	mediaRepo iMediaRepo
	blobStore iBlobStore
	logger    *slog.Logger
}

func NewService(mediaRepo iMediaRepo, blobStore iBlobStore, logger *slog.Logger) *service {
	return &service{
		mediaRepo: mediaRepo,
		blobStore: blobStore,
		logger:    logger,
	}
}

type UploadParams struct {
	Room      string
	VideoName string
	Video     io.Reader
	// ImageName/Image are the optional poster; Image may be nil.
	ImageName string
	Image     io.Reader
}

type UploadResponse struct {
	Entry Entry
}

// Upload stores the video and optional poster and records the library
// entry. The title is the video filename without its extension; an
// upload under an existing title replaces that entry.
func (s service) Upload(ctx context.Context, params *UploadParams) (UploadResponse, error) {
	if params.Room == "" {
		return UploadResponse{}, ErrRoomRequired
	}
	if params.Video == nil || params.VideoName == "" {
		return UploadResponse{}, ErrVideoRequired
	}

	videoURL, err := s.blobStore.Save(ctx, params.Room, params.VideoName, params.Video)
	if err != nil {
		return UploadResponse{}, fmt.Errorf("failed to store video: %w", err)
	}

	var imageURL string
	if params.Image != nil && params.ImageName != "" {
		imageURL, err = s.blobStore.Save(ctx, params.Room, params.ImageName, params.Image)
		if err != nil {
			return UploadResponse{}, fmt.Errorf("failed to store image: %w", err)
		}
	}

	title := strings.TrimSuffix(params.VideoName, filepath.Ext(params.VideoName))

	if err := s.mediaRepo.SetEntry(ctx, &media.SetEntryParams{
		Room:     params.Room,
		Title:    title,
		VideoURL: videoURL,
		ImageURL: imageURL,
	}); err != nil {
		return UploadResponse{}, fmt.Errorf("failed to set media entry: %w", err)
	}

	return UploadResponse{Entry: Entry{
		VideoURL: videoURL,
		ImageURL: imageURL,
		Title:    title,
	}}, nil
}

// List returns the room's library, newest upload first.
func (s service) List(ctx context.Context, roomName string) ([]Entry, error) {
	if roomName == "" {
		return nil, ErrRoomRequired
	}

	stored, err := s.mediaRepo.GetEntries(ctx, roomName)
	if err != nil {
		return nil, fmt.Errorf("failed to get media entries: %w", err)
	}

	entries := make([]Entry, 0, len(stored))
	for _, e := range stored {
		entries = append(entries, Entry{
			VideoURL: e.VideoURL,
			ImageURL: e.ImageURL,
			Title:    e.Title,
		})
	}

	return entries, nil
}
