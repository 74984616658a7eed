package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/kballard/go-shellquote"
	"github.com/mwantia/imagekeeper/pkg/log"
)

// ErrFFmpegUnavailable is returned for video files when no ffmpeg binary was found.
var ErrFFmpegUnavailable = errors.New("ffmpeg executable not available")

// FFmpegGenerator extracts a single frame from a video with the ffmpeg
// command line tool and thumbnails that frame.
type FFmpegGenerator struct {
	ffmpegPath  string
	isAvailable bool
	bounds      Bounds
	exts        map[string]bool
	captureTime string
	log         log.LoggerService
}

// NewFFmpegGenerator resolves the ffmpeg binary. A configured path that does
// not exist falls back to a PATH lookup.
func NewFFmpegGenerator(logger log.LoggerService, userConfiguredPath, captureTime string, bounds Bounds, exts []string) *FFmpegGenerator {
	var foundPath string

	if userConfiguredPath != "" && userConfiguredPath != "ffmpeg" {
		if _, err := os.Stat(userConfiguredPath); err == nil {
			foundPath = userConfiguredPath
		} else {
			logger.Warn("Configured ffmpeg path '%s' is invalid, searching PATH instead", userConfiguredPath)
		}
	}

	if foundPath == "" {
		if path, err := exec.LookPath("ffmpeg"); err == nil {
			foundPath = path
		} else {
			logger.Debug("No 'ffmpeg' executable found; video thumbnails will fail")
		}
	}

	if captureTime == "" {
		captureTime = "00:00:00.000"
	}

	return &FFmpegGenerator{
		ffmpegPath:  foundPath,
		isAvailable: foundPath != "",
		bounds:      bounds,
		exts:        normalizeExts(exts),
		captureTime: captureTime,
		log:         logger,
	}
}

func (g *FFmpegGenerator) Name() string {
	return "ffmpeg"
}

// CanHandle does not depend on ffmpeg being available: a missing binary is
// reported by Generate as a failure instead of silently skipping the video.
func (g *FFmpegGenerator) CanHandle(ext string) bool {
	return g.exts[ext]
}

func (g *FFmpegGenerator) Generate(ctx context.Context, sourcePath, thumbDir string) (string, error) {
	if !g.isAvailable {
		return "", ErrFFmpegUnavailable
	}

	frame, err := os.CreateTemp(thumbDir, ".frame-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create frame file: %w", err)
	}
	framePath := frame.Name()
	frame.Close()
	defer os.Remove(framePath)

	args := []string{
		"-y",
		"-loglevel", "error",
		"-ss", g.captureTime,
		"-i", sourcePath,
		"-frames:v", "1",
		framePath,
	}
	g.log.Debug("Running %s", shellquote.Join(append([]string{g.ffmpegPath}, args...)...))

	cmd := exec.CommandContext(ctx, g.ffmpegPath, args...)
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg failed for '%s': %w: %s", sourcePath, err, strings.TrimSpace(errBuf.String()))
	}

	img, err := imaging.Open(framePath)
	if err != nil {
		return "", fmt.Errorf("failed to decode extracted frame of '%s': %w", sourcePath, err)
	}

	return fitAndSave(img, g.bounds, sourcePath, thumbDir)
}
