package store

import (
	"context"

	"github.com/mwantia/imagekeeper/pkg/db/models"
)

// MetadataStore defines the interface for database operations
type MetadataStore interface {
	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error
	Health(ctx context.Context) error

	// Transaction runs fn against a store bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx MetadataStore) error) error

	// Creator operations
	FindCreatorByName(ctx context.Context, name string) (*models.Creator, error)
	GetCreator(ctx context.Context, id uint) (*models.Creator, error)
	CreateCreator(ctx context.Context, creator *models.Creator) error
	FindOrCreateCreator(ctx context.Context, name string) (*models.Creator, error)
	ListCreators(ctx context.Context) ([]models.Creator, error)

	// Tag operations
	FindTagByName(ctx context.Context, name string) (*models.Tag, error)
	CreateTag(ctx context.Context, tag *models.Tag) error
	FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)

	// Asset operations
	CreateAsset(ctx context.Context, asset *models.Asset) error
	GetAsset(ctx context.Context, id uint) (*models.Asset, error)
	UpdateAsset(ctx context.Context, asset *models.Asset) error
	DeleteAsset(ctx context.Context, id uint) error
	ListAssetsWithAggregatedTags(ctx context.Context) ([]models.AssetView, error)

	// Association operations
	ListAssetTagIDs(ctx context.Context, assetID uint) ([]uint, error)
	AddAssetTag(ctx context.Context, assetID, tagID uint) error
	RemoveAssetTag(ctx context.Context, assetID, tagID uint) error

	// Social operations
	CreateSocial(ctx context.Context, social *models.Social) error
	ListSocials(ctx context.Context, creatorID uint) ([]models.Social, error)
}
