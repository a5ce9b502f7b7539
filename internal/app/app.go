package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/watchparty/server/internal/controller"
	"github.com/watchparty/server/internal/repository/blob/disk"
	connInmemory "github.com/watchparty/server/internal/repository/connection/inmemory"
	mediaRedis "github.com/watchparty/server/internal/repository/media/redis"
	roomRedis "github.com/watchparty/server/internal/repository/room/redis"
	"github.com/watchparty/server/internal/service/media"
	"github.com/watchparty/server/internal/service/room"
	"github.com/watchparty/server/pkg/ctxlogger"
	"github.com/watchparty/server/pkg/redisclient"
)

type AppConfig struct {
	Host                string `json:"host"`
	Port                int    `json:"port"`
	LogLevel            string `json:"log_level"`
	MediaDir            string `json:"media_dir"`
	MaxUploadMB         int    `json:"max_upload_mb"`
	PlayPauseSuppressMs int    `json:"play_pause_suppress_ms"`
	SeekSuppressMs      int    `json:"seek_suppress_ms"`
	RedisHost           string `json:"redis_host"`
	RedisPort           int    `json:"redis_port"`
	RedisPassword       string `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if cfg.MaxUploadMB < 1 {
		return fmt.Errorf("max upload size must be greater than 0")
	}
	if cfg.MediaDir == "" {
		return fmt.Errorf("media dir must not be empty")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: logLevel,
		}),
	}
	logger := slog.New(&h)

	rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	roomRepo := roomRedis.NewRepo(rc, logger)
	connRepo := connInmemory.NewRepo(logger)
	mediaRepo := mediaRedis.NewRepo(rc, logger)
	blobStore := disk.NewStore(cfg.MediaDir, "/media", logger)

	roomService := room.NewService(roomRepo, connRepo, &room.Config{
		PlayPauseSuppressWindow: time.Duration(cfg.PlayPauseSuppressMs) * time.Millisecond,
		SeekSuppressWindow:      time.Duration(cfg.SeekSuppressMs) * time.Millisecond,
	}, logger)
	mediaService := media.NewService(mediaRepo, blobStore, logger)

	controller := controller.NewController(roomService, mediaService, &controller.Config{
		MediaDir:      cfg.MediaDir,
		MaxUploadSize: int64(cfg.MaxUploadMB) << 20,
	}, logger)

	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
