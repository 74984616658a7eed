package models

import (
	"path/filepath"
	"strings"
	"time"
)

// UploadDateLayout is the format of Asset.UploadedOn.
const UploadDateLayout = "2006-01-02"

// Asset is a cataloged media file placed under the managed store.
// Filename and DirectoryPath are fixed once the asset is created.
type Asset struct {
	ID            uint    `gorm:"primaryKey"`
	Filename      string  `gorm:"type:text;not null"`
	DirectoryPath string  `gorm:"type:text;not null"`
	CreatorID     *uint   `gorm:"index:idx_assets_creator"`
	SourceURL     string  `gorm:"type:text"`
	UploadedOn    string  `gorm:"type:text"`
	ThumbnailPath *string `gorm:"type:text"`
	CreatedAt     time.Time

	// Relationships
	Creator *Creator `gorm:"foreignKey:CreatorID;references:ID"`
}

// Path returns the location of the stored file.
func (a *Asset) Path() string {
	return filepath.Join(a.DirectoryPath, a.Filename)
}

// AssetView is one row of the asset listing: an asset joined with its
// creator name and the comma-joined names of its tags.
type AssetView struct {
	ID            uint
	Filename      string
	DirectoryPath string
	Creator       string
	SourceURL     string
	UploadedOn    string
	ThumbnailPath string
	Tags          string
}

// TagNames splits the aggregated tag projection. The order is unspecified.
func (v AssetView) TagNames() []string {
	if v.Tags == "" {
		return nil
	}
	parts := strings.Split(v.Tags, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return names
}
