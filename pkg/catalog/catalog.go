package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mwantia/imagekeeper/internal/config"
	"github.com/mwantia/imagekeeper/pkg/db/models"
	"github.com/mwantia/imagekeeper/pkg/db/store"
	"github.com/mwantia/imagekeeper/pkg/log"
	"github.com/mwantia/imagekeeper/pkg/tags"
)

// Service is the caller-facing catalog API.
type Service interface {
	CreateAsset(ctx context.Context, req CreateAssetRequest) (*models.Asset, error)
	EditAsset(ctx context.Context, id uint, req EditAssetRequest) (*models.Asset, error)
	DeleteAsset(ctx context.Context, id uint) error
	GetAsset(ctx context.Context, id uint) (*models.Asset, error)
	ListAssetsView(ctx context.Context) ([]models.AssetView, error)

	CreateCreator(ctx context.Context, name string) (*models.Creator, error)
	ListCreators(ctx context.Context) ([]models.Creator, error)
	AddSocial(ctx context.Context, creatorName, handle, socialType string) (*models.Social, error)
	ListSocials(ctx context.Context, creatorName string) ([]models.Social, error)

	CreateTag(ctx context.Context, name, description, category string) (*models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	SuggestTags(ctx context.Context, entry string) ([]string, error)
}

// Placer copies a file into a managed directory without overwriting.
type Placer interface {
	Place(sourcePath, destDir string) (string, error)
}

// Thumbnailer derives a preview image; an empty path means the file kind has none.
type Thumbnailer interface {
	Generate(ctx context.Context, assetPath, thumbDir string) (string, error)
}

// CreateAssetRequest carries the input of a new asset.
type CreateAssetRequest struct {
	Creator    string
	SourcePath string
	SourceURL  string
	UploadedOn string
	Tags       []string
}

// EditAssetRequest replaces the mutable metadata of an asset.
type EditAssetRequest struct {
	Creator    string
	SourceURL  string
	UploadedOn string
	Tags       []string
}

// Catalog orchestrates ingestion and editing. Mutating operations are
// serialized and each runs inside a single repository transaction.
type Catalog struct {
	mu sync.Mutex

	cfg    config.StorageConfig
	store  store.MetadataStore
	files  Placer
	thumbs Thumbnailer
	log    log.LoggerService
}

var _ Service = (*Catalog)(nil)

func New(cfg config.StorageConfig, st store.MetadataStore, files Placer, thumbs Thumbnailer, logger log.LoggerService) *Catalog {
	return &Catalog{
		cfg:    cfg,
		store:  st,
		files:  files,
		thumbs: thumbs,
		log:    logger,
	}
}

func (c *Catalog) CreateAsset(ctx context.Context, req CreateAssetRequest) (*models.Asset, error) {
	const op = "create asset"

	creatorName := strings.TrimSpace(req.Creator)
	if creatorName == "" {
		return nil, invalid(op, "creator name cannot be empty")
	}
	if err := checkSource(req.SourcePath); err != nil {
		return nil, &Error{Op: op, Kind: ErrValidation, Err: err}
	}
	uploadedOn, err := normalizeDate(req.UploadedOn)
	if err != nil {
		return nil, &Error{Op: op, Kind: ErrValidation, Err: err}
	}
	desired, err := desiredTags(req.Tags)
	if err != nil {
		return nil, &Error{Op: op, Kind: ErrValidation, Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var placed, thumb string
	var asset *models.Asset

	err = c.store.Transaction(ctx, func(tx store.MetadataStore) error {
		creator, err := tx.FindOrCreateCreator(ctx, creatorName)
		if err != nil {
			return fromStore(op, fmt.Errorf("failed to resolve creator '%s': %w", creatorName, err))
		}

		placed, err = c.files.Place(req.SourcePath, c.cfg.AssetRoot)
		if err != nil {
			return &Error{Op: op, Kind: ErrIO, Err: err}
		}

		thumb = c.thumbnail(ctx, placed)

		asset = &models.Asset{
			Filename:      filepath.Base(placed),
			DirectoryPath: filepath.Dir(placed),
			CreatorID:     &creator.ID,
			SourceURL:     strings.TrimSpace(req.SourceURL),
			UploadedOn:    uploadedOn,
		}
		if thumb != "" {
			asset.ThumbnailPath = &thumb
		}

		if err := tx.CreateAsset(ctx, asset); err != nil {
			return fromStore(op, fmt.Errorf("failed to insert asset: %w", err))
		}

		if _, err := tags.Reconcile(ctx, tx, asset.ID, desired); err != nil {
			return fromStore(op, err)
		}

		asset.Creator = creator
		return nil
	})
	if err != nil {
		c.discard(placed, thumb)
		return nil, fromStore(op, err)
	}

	c.log.Info("Created asset %d '%s' by '%s' with %d tag(s)", asset.ID, asset.Filename, creatorName, len(desired))
	return asset, nil
}

func (c *Catalog) EditAsset(ctx context.Context, id uint, req EditAssetRequest) (*models.Asset, error) {
	const op = "edit asset"

	creatorName := strings.TrimSpace(req.Creator)
	if creatorName == "" {
		return nil, invalid(op, "creator name cannot be empty")
	}
	uploadedOn, err := normalizeDate(req.UploadedOn)
	if err != nil {
		return nil, &Error{Op: op, Kind: ErrValidation, Err: err}
	}
	desired, err := desiredTags(req.Tags)
	if err != nil {
		return nil, &Error{Op: op, Kind: ErrValidation, Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var asset *models.Asset
	var result *tags.Result

	err = c.store.Transaction(ctx, func(tx store.MetadataStore) error {
		var err error
		asset, err = tx.GetAsset(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return notFound(op, "asset %d does not exist", id)
			}
			return fromStore(op, err)
		}

		creator, err := tx.FindOrCreateCreator(ctx, creatorName)
		if err != nil {
			return fromStore(op, fmt.Errorf("failed to resolve creator '%s': %w", creatorName, err))
		}

		asset.Creator = nil
		asset.CreatorID = &creator.ID
		asset.SourceURL = strings.TrimSpace(req.SourceURL)
		asset.UploadedOn = uploadedOn

		if err := tx.UpdateAsset(ctx, asset); err != nil {
			return fromStore(op, fmt.Errorf("failed to update asset: %w", err))
		}

		result, err = tags.Reconcile(ctx, tx, asset.ID, desired)
		if err != nil {
			return fromStore(op, err)
		}

		asset.Creator = creator
		return nil
	})
	if err != nil {
		return nil, fromStore(op, err)
	}

	c.log.Info("Edited asset %d: %d tag(s) added, %d removed", asset.ID, len(result.Added), len(result.Removed))
	return asset, nil
}

// DeleteAsset removes the asset row and its tag associations. The stored
// file and thumbnail stay on disk.
func (c *Catalog) DeleteAsset(ctx context.Context, id uint) error {
	const op = "delete asset"

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.DeleteAsset(ctx, id); err != nil {
		return fromStore(op, err)
	}

	c.log.Info("Deleted asset %d", id)
	return nil
}

func (c *Catalog) GetAsset(ctx context.Context, id uint) (*models.Asset, error) {
	asset, err := c.store.GetAsset(ctx, id)
	if err != nil {
		return nil, fromStore("get asset", err)
	}
	return asset, nil
}

// ListAssetsView returns one row per asset in unspecified order.
func (c *Catalog) ListAssetsView(ctx context.Context) ([]models.AssetView, error) {
	views, err := c.store.ListAssetsWithAggregatedTags(ctx)
	if err != nil {
		return nil, fromStore("list assets", err)
	}
	return views, nil
}

func (c *Catalog) CreateCreator(ctx context.Context, name string) (*models.Creator, error) {
	const op = "create creator"

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid(op, "creator name cannot be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.store.FindCreatorByName(ctx, name); err == nil {
		return nil, invalid(op, "creator '%s' already exists", name)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fromStore(op, err)
	}

	creator := &models.Creator{Name: name}
	if err := c.store.CreateCreator(ctx, creator); err != nil {
		return nil, fromStore(op, err)
	}

	c.log.Info("Created creator %d '%s'", creator.ID, creator.Name)
	return creator, nil
}

func (c *Catalog) ListCreators(ctx context.Context) ([]models.Creator, error) {
	creators, err := c.store.ListCreators(ctx)
	if err != nil {
		return nil, fromStore("list creators", err)
	}
	return creators, nil
}

func (c *Catalog) AddSocial(ctx context.Context, creatorName, handle, socialType string) (*models.Social, error) {
	const op = "add social"

	handle = strings.TrimSpace(handle)
	socialType = strings.TrimSpace(socialType)
	if handle == "" || socialType == "" {
		return nil, invalid(op, "social handle and type cannot be empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	creator, err := c.lookupCreator(ctx, op, creatorName)
	if err != nil {
		return nil, err
	}

	social := &models.Social{
		CreatorID: creator.ID,
		Handle:    handle,
		Type:      socialType,
	}
	if err := c.store.CreateSocial(ctx, social); err != nil {
		return nil, fromStore(op, err)
	}
	return social, nil
}

func (c *Catalog) ListSocials(ctx context.Context, creatorName string) ([]models.Social, error) {
	const op = "list socials"

	creator, err := c.lookupCreator(ctx, op, creatorName)
	if err != nil {
		return nil, err
	}

	socials, err := c.store.ListSocials(ctx, creator.ID)
	if err != nil {
		return nil, fromStore(op, err)
	}
	return socials, nil
}

func (c *Catalog) CreateTag(ctx context.Context, name, description, category string) (*models.Tag, error) {
	const op = "create tag"

	name = strings.TrimSpace(name)
	if err := validateTagName(name); err != nil {
		return nil, &Error{Op: op, Kind: ErrValidation, Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.store.FindTagByName(ctx, name); err == nil {
		return nil, invalid(op, "tag '%s' already exists", name)
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fromStore(op, err)
	}

	tag := &models.Tag{
		Name:        name,
		Description: optional(description),
		Category:    optional(category),
	}
	if err := c.store.CreateTag(ctx, tag); err != nil {
		return nil, fromStore(op, err)
	}

	c.log.Info("Created tag %d '%s'", tag.ID, tag.Name)
	return tag, nil
}

func (c *Catalog) ListTags(ctx context.Context) ([]models.Tag, error) {
	list, err := c.store.ListTags(ctx)
	if err != nil {
		return nil, fromStore("list tags", err)
	}
	return list, nil
}

// SuggestTags completes the last term of a comma separated tag entry
// against the existing tag vocabulary.
func (c *Catalog) SuggestTags(ctx context.Context, entry string) ([]string, error) {
	list, err := c.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	vocabulary := make([]string, 0, len(list))
	for _, tag := range list {
		vocabulary = append(vocabulary, tag.Name)
	}
	return tags.Suggest(entry, vocabulary), nil
}

func (c *Catalog) lookupCreator(ctx context.Context, op, name string) (*models.Creator, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid(op, "creator name cannot be empty")
	}

	creator, err := c.store.FindCreatorByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound(op, "creator '%s' does not exist", name)
		}
		return nil, fromStore(op, err)
	}
	return creator, nil
}

// thumbnail is best effort: a failure is logged and the asset is stored
// without a thumbnail.
func (c *Catalog) thumbnail(ctx context.Context, assetPath string) string {
	path, err := c.thumbs.Generate(ctx, assetPath, c.cfg.ThumbnailDir)
	if err != nil {
		c.log.Warn("Continuing without thumbnail for '%s': %v", assetPath, err)
		return ""
	}
	return path
}

// discard removes files written by a failed ingestion.
func (c *Catalog) discard(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			c.log.Warn("Failed to remove '%s' after failed ingestion: %v", path, err)
		}
	}
}

func checkSource(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("source path cannot be empty")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("source file is not readable: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("source file is not readable: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("source '%s' is not a regular file", path)
	}
	return nil
}

func normalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	t, err := time.Parse(models.UploadDateLayout, value)
	if err != nil {
		return "", fmt.Errorf("upload date '%s' is not a YYYY-MM-DD date", value)
	}
	return t.Format(models.UploadDateLayout), nil
}

func desiredTags(names []string) ([]string, error) {
	desired := tags.Normalize(names)
	for _, name := range desired {
		if err := validateTagName(name); err != nil {
			return nil, err
		}
	}
	return desired, nil
}

// validateTagName rejects names that would not survive the comma joined
// tag projection of the asset listing.
func validateTagName(name string) error {
	if name == "" {
		return fmt.Errorf("tag name cannot be empty")
	}
	if strings.Contains(name, ",") {
		return fmt.Errorf("tag name '%s' cannot contain a comma", name)
	}
	return nil
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
