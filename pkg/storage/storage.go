package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwantia/imagekeeper/pkg/log"
)

// MaxProbes bounds the numeric suffixes tried before giving up on a name.
const MaxProbes = 10000

// ErrNoFreeName is returned when every probed candidate already exists.
var ErrNoFreeName = errors.New("no free file name")

// AssetStore copies incoming files into managed directories. It never
// overwrites an existing file: a taken name is resolved by appending
// _1, _2, ... to the file stem.
type AssetStore struct {
	log log.LoggerService
}

func NewAssetStore(logger log.LoggerService) *AssetStore {
	return &AssetStore{
		log: logger,
	}
}

// Place copies sourcePath into destDir under a collision free name and
// returns the path the content was written to.
func (s *AssetStore) Place(sourcePath, destDir string) (string, error) {
	src, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to open source file: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat source file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("source '%s' is not a regular file", sourcePath)
	}

	dst, storedPath, err := CreateUnique(destDir, filepath.Base(sourcePath))
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(storedPath)
		return "", fmt.Errorf("failed to copy '%s' to '%s': %w", sourcePath, storedPath, err)
	}
	if err := dst.Sync(); err != nil {
		dst.Close()
		os.Remove(storedPath)
		return "", fmt.Errorf("failed to flush '%s': %w", storedPath, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(storedPath)
		return "", fmt.Errorf("failed to close '%s': %w", storedPath, err)
	}

	s.log.Debug("Placed '%s' as '%s' (%d bytes)", sourcePath, storedPath, info.Size())
	return storedPath, nil
}

// CreateUnique claims the first free name derived from name inside dir and
// returns the opened file. Names are claimed with O_EXCL so a concurrent
// writer can never receive the same path.
func CreateUnique(dir, name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; i < MaxProbes; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		path := filepath.Join(dir, candidate)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, path, nil
		}
		if errors.Is(err, os.ErrExist) {
			continue
		}
		return nil, "", fmt.Errorf("failed to create '%s': %w", path, err)
	}

	return nil, "", fmt.Errorf("%w for '%s' in '%s' after %d attempts", ErrNoFreeName, name, dir, MaxProbes)
}

// UniquePath reserves a free name derived from name inside dir and returns
// its path. The reserved file is left empty for the caller to replace.
func UniquePath(dir, name string) (string, error) {
	f, path, err := CreateUnique(dir, name)
	if err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
