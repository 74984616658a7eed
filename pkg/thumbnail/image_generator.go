package thumbnail

import (
	"context"
	"fmt"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageGenerator decodes still images in-process.
type ImageGenerator struct {
	bounds Bounds
	exts   map[string]bool
}

func NewImageGenerator(bounds Bounds, exts []string) *ImageGenerator {
	return &ImageGenerator{
		bounds: bounds,
		exts:   normalizeExts(exts),
	}
}

func (g *ImageGenerator) Name() string {
	return "image"
}

func (g *ImageGenerator) CanHandle(ext string) bool {
	return g.exts[ext]
}

func (g *ImageGenerator) Generate(ctx context.Context, sourcePath, thumbDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	img, err := imaging.Open(sourcePath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image '%s': %w", sourcePath, err)
	}

	return fitAndSave(img, g.bounds, sourcePath, thumbDir)
}
