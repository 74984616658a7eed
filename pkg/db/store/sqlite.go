package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mwantia/imagekeeper/pkg/db/migrations"
	"github.com/mwantia/imagekeeper/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// SQLiteStore implements MetadataStore using SQLite
type SQLiteStore struct {
	db   *gorm.DB
	path string
	inTx bool
}

// DB returns the underlying GORM database instance
func (s *SQLiteStore) DB() *gorm.DB {
	return s.db
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path     string
	LogLevel logger.LogLevel
}

// ParseLogLevel maps a configured GORM log level name; unknown names are silent.
func ParseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return logger.Error
	case "warn", "warning":
		return logger.Warn
	case "info", "debug":
		return logger.Info
	}
	return logger.Silent
}

// NewSQLiteStore creates a new SQLite-backed metadata store
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	// Default to silent logging
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Silent
	}

	db, err := gorm.Open(sqlite.Open(dsn(cfg.Path)), &gorm.Config{
		Logger:         logger.Default.LogMode(cfg.LogLevel),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	return &SQLiteStore{
		db:   db,
		path: cfg.Path,
	}, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
}

// Connect initializes the database connection
func (s *SQLiteStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(1) // SQLite only supports 1 writer
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return withRetry(func() error {
		return sqlDB.PingContext(ctx)
	})
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Close()
}

// Migrate applies all pending schema migrations
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := migrations.NewMigrator(s.db).Migrate(ctx)
	return err
}

// Health checks database connectivity
func (s *SQLiteStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteStore) Transaction(ctx context.Context, fn func(tx MetadataStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SQLiteStore{
			db:   tx,
			path: s.path,
			inTx: true,
		})
	})
}

// retry only applies outside of transactions; a busy error inside one
// surfaces to the caller so the whole transaction is rolled back.
func (s *SQLiteStore) retry(op func() error) error {
	if s.inTx {
		return op()
	}
	return withRetry(op)
}

// Creator operations

func (s *SQLiteStore) FindCreatorByName(ctx context.Context, name string) (*models.Creator, error) {
	var creator models.Creator
	err := s.retry(func() error {
		return s.db.WithContext(ctx).Where("name = ?", name).First(&creator).Error
	})
	if err != nil {
		return nil, err
	}
	return &creator, nil
}

func (s *SQLiteStore) GetCreator(ctx context.Context, id uint) (*models.Creator, error) {
	var creator models.Creator
	err := s.retry(func() error {
		return s.db.WithContext(ctx).Where("id = ?", id).First(&creator).Error
	})
	if err != nil {
		return nil, err
	}
	return &creator, nil
}

func (s *SQLiteStore) CreateCreator(ctx context.Context, creator *models.Creator) error {
	err := s.retry(func() error {
		return s.db.WithContext(ctx).Create(creator).Error
	})
	if isDuplicateError(err) {
		return fmt.Errorf("creator '%s': %w", creator.Name, ErrDuplicate)
	}
	return err
}

// FindOrCreateCreator returns the creator with the given name, inserting it
// first when absent. A unique conflict means another writer won the race and
// the row is re-read instead.
func (s *SQLiteStore) FindOrCreateCreator(ctx context.Context, name string) (*models.Creator, error) {
	creator, err := s.FindCreatorByName(ctx, name)
	if err == nil {
		return creator, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	creator = &models.Creator{Name: name}
	if err := s.CreateCreator(ctx, creator); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return s.FindCreatorByName(ctx, name)
		}
		return nil, err
	}
	return creator, nil
}

func (s *SQLiteStore) ListCreators(ctx context.Context) ([]models.Creator, error) {
	var creators []models.Creator
	err := s.retry(func() error {
		return s.db.WithContext(ctx).Order("id ASC").Find(&creators).Error
	})
	return creators, err
}

// Tag operations

func (s *SQLiteStore) FindTagByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := s.retry(func() error {
		return s.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
	})
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (s *SQLiteStore) CreateTag(ctx context.Context, tag *models.Tag) error {
	err := s.retry(func() error {
		return s.db.WithContext(ctx).Create(tag).Error
	})
	if isDuplicateError(err) {
		return fmt.Errorf("tag '%s': %w", tag.Name, ErrDuplicate)
	}
	return err
}

// FindOrCreateTag mirrors FindOrCreateCreator for tags. Created tags carry
// no description or category.
func (s *SQLiteStore) FindOrCreateTag(ctx context.Context, name string) (*models.Tag, error) {
	tag, err := s.FindTagByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	tag = &models.Tag{Name: name}
	if err := s.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return s.FindTagByName(ctx, name)
		}
		return nil, err
	}
	return tag, nil
}

func (s *SQLiteStore) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.retry(func() error {
		return s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	})
	return tags, err
}

// Asset operations

func (s *SQLiteStore) CreateAsset(ctx context.Context, asset *models.Asset) error {
	return s.retry(func() error {
		return s.db.WithContext(ctx).Omit(clause.Associations).Create(asset).Error
	})
}

func (s *SQLiteStore) GetAsset(ctx context.Context, id uint) (*models.Asset, error) {
	var asset models.Asset
	err := s.retry(func() error {
		return s.db.WithContext(ctx).Preload("Creator").Where("id = ?", id).First(&asset).Error
	})
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (s *SQLiteStore) UpdateAsset(ctx context.Context, asset *models.Asset) error {
	return s.retry(func() error {
		return s.db.WithContext(ctx).Omit(clause.Associations).Save(asset).Error
	})
}

// DeleteAsset removes the asset row together with its tag associations.
func (s *SQLiteStore) DeleteAsset(ctx context.Context, id uint) error {
	return s.retry(func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("asset_id = ?", id).Delete(&models.AssetTag{}).Error; err != nil {
				return err
			}

			result := tx.Delete(&models.Asset{}, id)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("asset %d: %w", id, ErrNotFound)
			}
			return nil
		})
	})
}

// ListAssetsWithAggregatedTags returns one row per asset. Row order and the
// order of names inside Tags are unspecified.
func (s *SQLiteStore) ListAssetsWithAggregatedTags(ctx context.Context) ([]models.AssetView, error) {
	var views []models.AssetView
	err := s.retry(func() error {
		return s.db.WithContext(ctx).
			Table("assets AS a").
			Select(`a.id AS id,
				a.filename AS filename,
				a.directory_path AS directory_path,
				COALESCE(c.name, '') AS creator,
				COALESCE(a.source_url, '') AS source_url,
				COALESCE(a.uploaded_on, '') AS uploaded_on,
				COALESCE(a.thumbnail_path, '') AS thumbnail_path,
				COALESCE(GROUP_CONCAT(t.name), '') AS tags`).
			Joins("LEFT JOIN creators AS c ON c.id = a.creator_id").
			Joins("LEFT JOIN asset_tags AS ats ON ats.asset_id = a.id").
			Joins("LEFT JOIN tags AS t ON t.id = ats.tag_id").
			Group("a.id").
			Scan(&views).Error
	})
	return views, err
}

// Association operations

func (s *SQLiteStore) ListAssetTagIDs(ctx context.Context, assetID uint) ([]uint, error) {
	var ids []uint
	err := s.retry(func() error {
		return s.db.WithContext(ctx).
			Model(&models.AssetTag{}).
			Where("asset_id = ?", assetID).
			Pluck("tag_id", &ids).Error
	})
	return ids, err
}

// AddAssetTag is a no-op when the association already exists.
func (s *SQLiteStore) AddAssetTag(ctx context.Context, assetID, tagID uint) error {
	return s.retry(func() error {
		return s.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&models.AssetTag{AssetID: assetID, TagID: tagID}).Error
	})
}

// RemoveAssetTag is a no-op when the association does not exist.
func (s *SQLiteStore) RemoveAssetTag(ctx context.Context, assetID, tagID uint) error {
	return s.retry(func() error {
		return s.db.WithContext(ctx).
			Where("asset_id = ? AND tag_id = ?", assetID, tagID).
			Delete(&models.AssetTag{}).Error
	})
}

// Social operations

func (s *SQLiteStore) CreateSocial(ctx context.Context, social *models.Social) error {
	return s.retry(func() error {
		return s.db.WithContext(ctx).Create(social).Error
	})
}

func (s *SQLiteStore) ListSocials(ctx context.Context, creatorID uint) ([]models.Social, error) {
	var socials []models.Social
	err := s.retry(func() error {
		return s.db.WithContext(ctx).Where("creator_id = ?", creatorID).Order("id ASC").Find(&socials).Error
	})
	return socials, err
}
