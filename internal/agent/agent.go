package agent

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"sync"

	"github.com/mwantia/fabric/pkg/container"
	"github.com/mwantia/imagekeeper/internal/config"
	"github.com/mwantia/imagekeeper/pkg/catalog"
	"github.com/mwantia/imagekeeper/pkg/db/store"
	"github.com/mwantia/imagekeeper/pkg/log"
	"github.com/mwantia/imagekeeper/pkg/storage"
	"github.com/mwantia/imagekeeper/pkg/thumbnail"
)

var catalogServiceType = reflect.TypeOf((*catalog.Service)(nil)).Elem()

// ImageKeeperAgent owns the service container behind every CLI command.
type ImageKeeperAgent struct {
	mutex sync.Mutex

	cfg   *config.BaseConfig
	sc    *container.ServiceContainer
	log   log.LoggerService
	store *store.SQLiteStore
}

func NewAgent(cfg *config.BaseConfig) *ImageKeeperAgent {
	return &ImageKeeperAgent{
		cfg: cfg,
		sc:  container.NewServiceContainer(),
		log: log.NewLoggerService("imagekeeper", cfg.Log),
	}
}

// Open connects the metadata store and registers all catalog services.
// With migrate set, pending schema migrations are applied first.
func (ika *ImageKeeperAgent) Open(ctx context.Context, migrate bool) error {
	ika.mutex.Lock()
	defer ika.mutex.Unlock()

	if ika.store != nil {
		return fmt.Errorf("agent is already open")
	}

	st, err := store.NewSQLiteStore(store.SQLiteConfig{
		Path:     ika.cfg.Metadata.SQLite.Path,
		LogLevel: store.ParseLogLevel(ika.cfg.Metadata.SQLite.LogLevel),
	})
	if err != nil {
		return err
	}
	if err := st.Connect(ctx); err != nil {
		_ = st.Close()
		return fmt.Errorf("failed to connect metadata store: %w", err)
	}
	if migrate {
		if err := st.Migrate(ctx); err != nil {
			_ = st.Close()
			return fmt.Errorf("failed to migrate metadata store: %w", err)
		}
	}
	ika.store = st

	if err := ika.setupServices(); err != nil {
		_ = st.Close()
		ika.store = nil
		return err
	}
	return nil
}

func (ika *ImageKeeperAgent) setupServices() error {
	errs := container.Errors{}

	ika.log.Debug("Registering 'LoggerService'...")
	errs.Add(container.Register[log.LoggerServiceImpl](ika.sc,
		container.With[log.LoggerService](),
		container.WithInstance(ika.log)))

	ika.log.Debug("Registering 'MetadataStore'...")
	errs.Add(container.Register[store.SQLiteStore](ika.sc,
		container.With[store.MetadataStore](),
		container.WithInstance(ika.store)))

	files := storage.NewAssetStore(ika.log.Named("storage"))
	ika.log.Debug("Registering 'Placer'...")
	errs.Add(container.Register[storage.AssetStore](ika.sc,
		container.With[catalog.Placer](),
		container.WithInstance(files)))

	thumbs := thumbnail.NewServiceFromConfig(ika.log.Named("thumbnail"), ika.cfg.Thumbnail)
	ika.log.Debug("Registering 'Thumbnailer'...")
	errs.Add(container.Register[thumbnail.Service](ika.sc,
		container.With[catalog.Thumbnailer](),
		container.WithInstance(thumbs)))

	cat := catalog.New(ika.cfg.Storage, ika.store, files, thumbs, ika.log.Named("catalog"))
	ika.log.Debug("Registering 'Service'...")
	errs.Add(container.Register[catalog.Catalog](ika.sc,
		container.With[catalog.Service](),
		container.WithInstance(cat)))

	return errs.Errors()
}

// Store returns the opened metadata store.
func (ika *ImageKeeperAgent) Store() (*store.SQLiteStore, error) {
	ika.mutex.Lock()
	defer ika.mutex.Unlock()

	if ika.store == nil {
		return nil, fmt.Errorf("agent is not open")
	}
	return ika.store, nil
}

// Catalog resolves the catalog service from the container.
func (ika *ImageKeeperAgent) Catalog(ctx context.Context) (catalog.Service, error) {
	ok, resolved := ika.sc.ResolveByType(ctx, catalogServiceType)
	if !ok {
		return nil, fmt.Errorf("catalog service is not registered")
	}

	svc, ok := resolved.(catalog.Service)
	if !ok {
		return nil, fmt.Errorf("resolved service is not a catalog service")
	}
	return svc, nil
}

// Logger resolves a named logger from the container.
func (ika *ImageKeeperAgent) Logger(ctx context.Context, name string) (log.LoggerService, error) {
	return log.Resolve(ctx, ika.sc, name)
}

// Prepare creates the asset and thumbnail directories.
func (ika *ImageKeeperAgent) Prepare() error {
	for _, dir := range []string{ika.cfg.Storage.AssetRoot, ika.cfg.Storage.ThumbnailDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory '%s': %w", dir, err)
		}
		ika.log.Debug("Ensured directory '%s'", dir)
	}
	return nil
}

func (ika *ImageKeeperAgent) Close(ctx context.Context) error {
	ika.mutex.Lock()
	defer ika.mutex.Unlock()

	if err := ika.sc.Cleanup(ctx); err != nil {
		return fmt.Errorf("failed to complete service container cleanup: %w", err)
	}

	if ika.store != nil {
		err := ika.store.Close()
		ika.store = nil
		if err != nil {
			return fmt.Errorf("failed to close metadata store: %w", err)
		}
	}
	return nil
}
