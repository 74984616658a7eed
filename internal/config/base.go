package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type BaseConfig struct {
	Log       LogConfig       `mapstructure:"log"       yaml:"log"`
	Metadata  MetadataConfig  `mapstructure:"metadata"  yaml:"metadata"`
	Storage   StorageConfig   `mapstructure:"storage"   yaml:"storage"`
	Thumbnail ThumbnailConfig `mapstructure:"thumbnail" yaml:"thumbnail"`
}

func LoadConfig() (*BaseConfig, error) {
	cfg := &BaseConfig{}

	setDefaults()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports configuration values the catalog cannot work with.
func (cfg *BaseConfig) Validate() error {
	if cfg.Metadata.Type != "sqlite" {
		return fmt.Errorf("unsupported metadata type '%s'", cfg.Metadata.Type)
	}
	if cfg.Metadata.SQLite.Path == "" {
		return fmt.Errorf("metadata.sqlite.path is required")
	}
	if cfg.Storage.AssetRoot == "" {
		return fmt.Errorf("storage.asset_root is required")
	}
	if cfg.Storage.ThumbnailDir == "" {
		return fmt.Errorf("storage.thumbnail_dir is required")
	}
	if cfg.Thumbnail.MaxWidth <= 0 || cfg.Thumbnail.MaxHeight <= 0 {
		return fmt.Errorf("thumbnail bounds must be positive, got %dx%d", cfg.Thumbnail.MaxWidth, cfg.Thumbnail.MaxHeight)
	}
	return nil
}
