package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/watchparty/server/internal/app"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
}

var (
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 3000,
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
	}
	mediaDir = configVar[string]{
		envKey:       "SERVER_MEDIA_DIR",
		flagKey:      "media-dir",
		defaultValue: "/var/lib/watchparty/media",
	}
	maxUploadMB = configVar[int]{
		envKey:       "SERVER_MAX_UPLOAD_MB",
		flagKey:      "max-upload-mb",
		defaultValue: 512,
	}
	playPauseSuppressMs = configVar[int]{
		envKey:       "SERVER_PLAY_PAUSE_SUPPRESS_MS",
		flagKey:      "play-pause-suppress-ms",
		defaultValue: 500,
	}
	seekSuppressMs = configVar[int]{
		envKey:       "SERVER_SEEK_SUPPRESS_MS",
		flagKey:      "seek-suppress-ms",
		defaultValue: 1000,
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
	}
)

func loadAppConfig() *app.AppConfig {
	pflag.String(host.flagKey, host.defaultValue, "Server host")
	pflag.Int(port.flagKey, port.defaultValue, "Server port")
	pflag.String(logLevel.flagKey, logLevel.defaultValue, "Logging level")
	pflag.String(mediaDir.flagKey, mediaDir.defaultValue, "Directory for uploaded media")
	pflag.Int(maxUploadMB.flagKey, maxUploadMB.defaultValue, "Maximum upload size in megabytes")
	pflag.Int(playPauseSuppressMs.flagKey, playPauseSuppressMs.defaultValue, "Play/pause echo suppression window in milliseconds")
	pflag.Int(seekSuppressMs.flagKey, seekSuppressMs.defaultValue, "Seek echo suppression window in milliseconds")
	pflag.String(redisHost.flagKey, redisHost.defaultValue, "Redis host")
	pflag.Int(redisPort.flagKey, redisPort.defaultValue, "Redis port")
	pflag.String(redisPassword.flagKey, redisPassword.defaultValue, "Redis password")
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	viper.BindEnv(host.flagKey, host.envKey)
	viper.BindEnv(port.flagKey, port.envKey)
	viper.BindEnv(logLevel.flagKey, logLevel.envKey)
	viper.BindEnv(mediaDir.flagKey, mediaDir.envKey)
	viper.BindEnv(maxUploadMB.flagKey, maxUploadMB.envKey)
	viper.BindEnv(playPauseSuppressMs.flagKey, playPauseSuppressMs.envKey)
	viper.BindEnv(seekSuppressMs.flagKey, seekSuppressMs.envKey)
	viper.BindEnv(redisHost.flagKey, redisHost.envKey)
	viper.BindEnv(redisPort.flagKey, redisPort.envKey)
	viper.BindEnv(redisPassword.flagKey, redisPassword.envKey)

	viper.SetDefault(host.flagKey, host.defaultValue)
	viper.SetDefault(port.flagKey, port.defaultValue)
	viper.SetDefault(logLevel.flagKey, logLevel.defaultValue)
	viper.SetDefault(mediaDir.flagKey, mediaDir.defaultValue)
	viper.SetDefault(maxUploadMB.flagKey, maxUploadMB.defaultValue)
	viper.SetDefault(playPauseSuppressMs.flagKey, playPauseSuppressMs.defaultValue)
	viper.SetDefault(seekSuppressMs.flagKey, seekSuppressMs.defaultValue)
	viper.SetDefault(redisHost.flagKey, redisHost.defaultValue)
	viper.SetDefault(redisPort.flagKey, redisPort.defaultValue)
	viper.SetDefault(redisPassword.flagKey, redisPassword.defaultValue)

	return &app.AppConfig{
		Host:                viper.GetString(host.flagKey),
		Port:                viper.GetInt(port.flagKey),
		LogLevel:            viper.GetString(logLevel.flagKey),
		MediaDir:            viper.GetString(mediaDir.flagKey),
		MaxUploadMB:         viper.GetInt(maxUploadMB.flagKey),
		PlayPauseSuppressMs: viper.GetInt(playPauseSuppressMs.flagKey),
		SeekSuppressMs:      viper.GetInt(seekSuppressMs.flagKey),
		RedisHost:           viper.GetString(redisHost.flagKey),
		RedisPort:           viper.GetInt(redisPort.flagKey),
		RedisPassword:       viper.GetString(redisPassword.flagKey),
	}
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
