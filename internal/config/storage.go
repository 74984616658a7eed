package config

// StorageConfig describes the managed directories assets and thumbnails are placed in.
// Both directories must exist; the catalog never creates them.
type StorageConfig struct {
	AssetRoot    string `mapstructure:"asset_root"    yaml:"asset_root"`
	ThumbnailDir string `mapstructure:"thumbnail_dir" yaml:"thumbnail_dir"`
}

// ThumbnailConfig controls preview generation.
type ThumbnailConfig struct {
	MaxWidth    int      `mapstructure:"max_width"    yaml:"max_width"`
	MaxHeight   int      `mapstructure:"max_height"   yaml:"max_height"`
	FFmpegPath  string   `mapstructure:"ffmpeg_path"  yaml:"ffmpeg_path"`
	CaptureTime string   `mapstructure:"capture_time" yaml:"capture_time"`
	ImageExts   []string `mapstructure:"image_exts"   yaml:"image_exts"`
	VideoExts   []string `mapstructure:"video_exts"   yaml:"video_exts"`
}
