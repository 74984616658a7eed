package thumbnail

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mwantia/imagekeeper/internal/config"
	"github.com/mwantia/imagekeeper/pkg/log"
)

// Service dispatches thumbnail generation on the file extension.
type Service struct {
	generators []Generator
	log        log.LoggerService
}

func NewService(logger log.LoggerService, generators ...Generator) *Service {
	return &Service{
		generators: generators,
		log:        logger,
	}
}

// NewServiceFromConfig builds the image and ffmpeg generators from cfg.
func NewServiceFromConfig(logger log.LoggerService, cfg config.ThumbnailConfig) *Service {
	bounds := Bounds{
		Width:  cfg.MaxWidth,
		Height: cfg.MaxHeight,
	}

	return NewService(logger,
		NewImageGenerator(bounds, cfg.ImageExts),
		NewFFmpegGenerator(logger, cfg.FFmpegPath, cfg.CaptureTime, bounds, cfg.VideoExts),
	)
}

// Generate returns the path of the thumbnail written for assetPath, or an
// empty path and nil error when no generator handles its extension. Every
// returned error wraps ErrThumbnail.
func (s *Service) Generate(ctx context.Context, assetPath, thumbDir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(assetPath))

	for _, g := range s.generators {
		if !g.CanHandle(ext) {
			continue
		}

		path, err := g.Generate(ctx, assetPath, thumbDir)
		if err != nil {
			return "", fmt.Errorf("%w: %s generator: %w", ErrThumbnail, g.Name(), err)
		}

		s.log.Debug("Generated thumbnail '%s' for '%s' using %s", path, assetPath, g.Name())
		return path, nil
	}

	s.log.Debug("No thumbnail generator for '%s'", assetPath)
	return "", nil
}
