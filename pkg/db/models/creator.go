package models

import "time"

// Creator is the attribution entity of an asset
type Creator struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:text;not null;uniqueIndex:idx_creators_name"`
	CreatedAt time.Time
}

// Social is a handle of a creator on some external platform
type Social struct {
	ID        uint   `gorm:"primaryKey"`
	CreatorID uint   `gorm:"not null;index:idx_socials_creator"`
	Handle    string `gorm:"type:text;not null"`
	Type      string `gorm:"type:text;not null"`
}
