package server

import (
	"context"
	"fmt"

	"github.com/mwantia/imagekeeper/internal/agent"
	"github.com/mwantia/imagekeeper/internal/config"
	"github.com/spf13/cobra"
)

func NewInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the catalog database and storage directories",
		Long: `Create the asset and thumbnail directories and bring the
catalog database schema up to date.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
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

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized catalog '%s' (assets: %s, thumbnails: %s)\n",
				cfg.Metadata.SQLite.Path, cfg.Storage.AssetRoot, cfg.Storage.ThumbnailDir)
			return nil
		},
	}
}
