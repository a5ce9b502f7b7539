package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

var ErrInvalidName = errors.New("invalid blob name")

// store keeps uploaded blobs on the local filesystem under
// baseDir/<room>/<name> and serves them back under urlPrefix. It stands
// in for a cloud object store behind the same interface.
type store struct {
	baseDir   string
	urlPrefix string
	logger    *slog.Logger
}

func NewStore(baseDir, urlPrefix string, logger *slog.Logger) *store {
	return &store{
		baseDir:   baseDir,
		urlPrefix: urlPrefix,
		logger:    logger,
	}
}

func (s *store) Save(ctx context.Context, roomName, name string, src io.Reader) (string, error) {
	s.logger.DebugContext(ctx, "called", "room", roomName, "name", name)

	roomName = filepath.Base(roomName)
	name = filepath.Base(name)
	if roomName == "." || roomName == string(filepath.Separator) || name == "." || name == string(filepath.Separator) {
		return "", ErrInvalidName
	}

	dir := filepath.Join(s.baseDir, roomName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create blob dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create blob file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, src); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	return s.urlPrefix + "/" + roomName + "/" + name, nil
}
