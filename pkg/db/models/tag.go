package models

// Tag is a reusable classification label. Tags form a controlled vocabulary
// and outlive the assets they are attached to.
type Tag struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"type:text;not null;uniqueIndex:idx_tags_name"`
	Description *string `gorm:"type:text"`
	Category    *string `gorm:"type:text"`
}

// AssetTag links one asset to one tag.
type AssetTag struct {
	AssetID uint `gorm:"primaryKey;autoIncrement:false"`
	TagID   uint `gorm:"primaryKey;autoIncrement:false;index:idx_asset_tags_tag"`
}

func (AssetTag) TableName() string {
	return "asset_tags"
}
