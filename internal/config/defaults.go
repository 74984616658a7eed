package config

import "github.com/spf13/viper"

func GetDefault() BaseConfig {
	return BaseConfig{
		Log: LogConfig{
			Level:      "INFO",
			TimeFormat: "2006-01-02 15:04:05",
			File:       "",
			NoColor:    false,
			JSON:       false,
			NoTerminal: false,
			Rotation: LogRotationConfig{
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
				Compress:   false,
			},
		},
		Metadata: MetadataConfig{
			Type: "sqlite",
			SQLite: MetadataSQLiteConfig{
				Path:     "image_database.db",
				LogLevel: "silent",
			},
		},
		Storage: StorageConfig{
			AssetRoot:    "images",
			ThumbnailDir: "images/thumbnails",
		},
		Thumbnail: ThumbnailConfig{
			MaxWidth:    100,
			MaxHeight:   100,
			FFmpegPath:  "ffmpeg",
			CaptureTime: "00:00:00.000",
			ImageExts:   []string{"jpg", "jpeg", "png", "gif", "bmp", "webp", "tif", "tiff"},
			VideoExts:   []string{"mp4", "mov", "avi", "mkv", "webm", "m4v"},
		},
	}
}

func setDefaults() {
	defaults := GetDefault()

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.time_format", defaults.Log.TimeFormat)
	viper.SetDefault("log.file", defaults.Log.File)
	viper.SetDefault("log.no_color", defaults.Log.NoColor)
	viper.SetDefault("log.json", defaults.Log.JSON)
	viper.SetDefault("log.no_terminal", defaults.Log.NoTerminal)
	viper.SetDefault("log.rotation.max_size", defaults.Log.Rotation.MaxSize)
	viper.SetDefault("log.rotation.max_backups", defaults.Log.Rotation.MaxBackups)
	viper.SetDefault("log.rotation.max_age", defaults.Log.Rotation.MaxAge)
	viper.SetDefault("log.rotation.compress", defaults.Log.Rotation.Compress)

	viper.SetDefault("metadata.type", defaults.Metadata.Type)
	viper.SetDefault("metadata.sqlite.path", defaults.Metadata.SQLite.Path)
	viper.SetDefault("metadata.sqlite.log_level", defaults.Metadata.SQLite.LogLevel)

	viper.SetDefault("storage.asset_root", defaults.Storage.AssetRoot)
	viper.SetDefault("storage.thumbnail_dir", defaults.Storage.ThumbnailDir)

	viper.SetDefault("thumbnail.max_width", defaults.Thumbnail.MaxWidth)
	viper.SetDefault("thumbnail.max_height", defaults.Thumbnail.MaxHeight)
	viper.SetDefault("thumbnail.ffmpeg_path", defaults.Thumbnail.FFmpegPath)
	viper.SetDefault("thumbnail.capture_time", defaults.Thumbnail.CaptureTime)
	viper.SetDefault("thumbnail.image_exts", defaults.Thumbnail.ImageExts)
	viper.SetDefault("thumbnail.video_exts", defaults.Thumbnail.VideoExts)
}
