package client

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mwantia/imagekeeper/internal/agent"
	"github.com/mwantia/imagekeeper/internal/config"
	"github.com/mwantia/imagekeeper/pkg/catalog"
)

// withCatalog opens the catalog for a single command invocation.
func withCatalog(fn func(ctx context.Context, svc catalog.Service) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx := context.Background()
	a := agent.NewAgent(cfg)
	if err := a.Prepare(); err != nil {
		return err
	}
	if err := a.Open(ctx, true); err != nil {
		return err
	}
	defer a.Close(ctx)

	svc, err := a.Catalog(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, svc)
}

func parseID(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid asset id '%s'", arg)
	}
	return uint(id), nil
}
