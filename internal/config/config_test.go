package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Thumbnail.MaxWidth != 100 || cfg.Thumbnail.MaxHeight != 100 {
		t.Fatalf("thumbnail bounds = %dx%d, want 100x100", cfg.Thumbnail.MaxWidth, cfg.Thumbnail.MaxHeight)
	}
	if cfg.Metadata.Type != "sqlite" {
		t.Fatalf("metadata.type = %q, want sqlite", cfg.Metadata.Type)
	}
	if len(cfg.Thumbnail.VideoExts) == 0 {
		t.Fatalf("expected default video extensions")
	}
}

func TestLoadConfig_OverridesWin(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("storage.asset_root", "/srv/assets")
	viper.Set("thumbnail.max_width", 64)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Storage.AssetRoot != "/srv/assets" {
		t.Fatalf("asset_root = %q", cfg.Storage.AssetRoot)
	}
	if cfg.Thumbnail.MaxWidth != 64 {
		t.Fatalf("max_width = %d, want 64", cfg.Thumbnail.MaxWidth)
	}
}

func TestValidate_RejectsUnknownMetadataType(t *testing.T) {
	cfg := GetDefault()
	cfg.Metadata.Type = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unsupported metadata type")
	}
}

func TestValidate_RejectsNonPositiveBounds(t *testing.T) {
	cfg := GetDefault()
	cfg.Thumbnail.MaxHeight = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for zero thumbnail height")
	}
}
