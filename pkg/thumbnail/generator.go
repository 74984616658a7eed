package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/mwantia/imagekeeper/pkg/storage"
)

// OutputExt is the extension of every generated thumbnail.
const OutputExt = ".png"

// ErrThumbnail marks every failure while producing a thumbnail.
var ErrThumbnail = errors.New("thumbnail failure")

// Generator produces a thumbnail for the file kinds it can handle.
type Generator interface {
	// Name identifies the generator in logs.
	Name() string

	// CanHandle reports whether the lowercase extension (with leading dot) is supported.
	CanHandle(ext string) bool

	// Generate writes a thumbnail for sourcePath into thumbDir and returns its path.
	Generate(ctx context.Context, sourcePath, thumbDir string) (string, error)
}

// Bounds is the box a thumbnail must fit into.
type Bounds struct {
	Width  int
	Height int
}

// fitAndSave scales img down to fit b, keeping the aspect ratio, and saves it
// as PNG under a free name derived from the source base name.
func fitAndSave(img image.Image, b Bounds, sourcePath, thumbDir string) (string, error) {
	thumb := imaging.Fit(img, b.Width, b.Height, imaging.Lanczos)

	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	path, err := storage.UniquePath(thumbDir, stem+OutputExt)
	if err != nil {
		return "", fmt.Errorf("failed to reserve thumbnail path: %w", err)
	}

	if err := imaging.Save(thumb, path); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to save thumbnail '%s': %w", path, err)
	}

	return path, nil
}

func normalizeExts(exts []string) map[string]bool {
	m := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		m[ext] = true
	}
	return m
}
