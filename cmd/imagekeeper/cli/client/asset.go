package client

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/mwantia/imagekeeper/pkg/catalog"
	"github.com/mwantia/imagekeeper/pkg/db/models"
	"github.com/mwantia/imagekeeper/pkg/tags"
	"github.com/spf13/cobra"
)

func NewAssetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "asset",
		Aliases: []string{"assets"},
		Short:   "Ingest, edit and list assets",
	}

	cmd.AddCommand(newAssetAddCommand())
	cmd.AddCommand(newAssetEditCommand())
	cmd.AddCommand(newAssetRemoveCommand())
	cmd.AddCommand(newAssetListCommand())

	return cmd
}

func newAssetAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Copy a file into the catalog",
		Long: `Copy a file into the asset directory, generate its thumbnail and
record it with its creator and tags. Missing creators and tags are created.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			creator, _ := cmd.Flags().GetString("creator")
			source, _ := cmd.Flags().GetString("source")
			date, _ := cmd.Flags().GetString("date")
			list, _ := cmd.Flags().GetString("tags")

			return withCatalog(func(ctx context.Context, svc catalog.Service) error {
				asset, err := svc.CreateAsset(ctx, catalog.CreateAssetRequest{
					Creator:    creator,
					SourcePath: args[0],
					SourceURL:  source,
					UploadedOn: date,
					Tags:       tags.ParseList(list),
				})
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Added asset %d at %s\n", asset.ID, asset.Path())
				if asset.ThumbnailPath == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "No thumbnail was generated")
				}
				return nil
			})
		},
	}

	cmd.Flags().String("creator", "", "name of the creator (required)")
	cmd.Flags().String("source", "", "URL the asset was obtained from")
	cmd.Flags().String("date", "", "upload date as YYYY-MM-DD")
	cmd.Flags().String("tags", "", "comma separated tag names")
	cmd.MarkFlagRequired("creator")

	return cmd
}

func newAssetEditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the metadata of an asset",
		Long: `Change the creator, source, upload date or tags of an asset.
Flags that are not given keep their current value. The given tag list
replaces the current tags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withCatalog(func(ctx context.Context, svc catalog.Service) error {
				req, err := currentEdit(ctx, svc, id)
				if err != nil {
					return err
				}

				flags := cmd.Flags()
				if flags.Changed("creator") {
					req.Creator, _ = flags.GetString("creator")
				}
				if flags.Changed("source") {
					req.SourceURL, _ = flags.GetString("source")
				}
				if flags.Changed("date") {
					req.UploadedOn, _ = flags.GetString("date")
				}
				if flags.Changed("tags") {
					list, _ := flags.GetString("tags")
					req.Tags = tags.ParseList(list)
				}

				asset, err := svc.EditAsset(ctx, id, *req)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Updated asset %d\n", asset.ID)
				return nil
			})
		},
	}

	cmd.Flags().String("creator", "", "name of the creator")
	cmd.Flags().String("source", "", "URL the asset was obtained from")
	cmd.Flags().String("date", "", "upload date as YYYY-MM-DD")
	cmd.Flags().String("tags", "", "comma separated tag names")

	return cmd
}

// currentEdit builds an edit request holding the stored values of an asset.
func currentEdit(ctx context.Context, svc catalog.Service, id uint) (*catalog.EditAssetRequest, error) {
	asset, err := svc.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}

	req := &catalog.EditAssetRequest{
		SourceURL:  asset.SourceURL,
		UploadedOn: asset.UploadedOn,
	}
	if asset.Creator != nil {
		req.Creator = asset.Creator.Name
	}

	views, err := svc.ListAssetsView(ctx)
	if err != nil {
		return nil, err
	}
	for _, v := range views {
		if v.ID == id {
			req.Tags = v.TagNames()
			break
		}
	}
	return req, nil
}

func newAssetRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove an asset from the catalog",
		Long:    `Remove an asset and its tag associations. The stored file and thumbnail are kept.`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			return withCatalog(func(ctx context.Context, svc catalog.Service) error {
				if err := svc.DeleteAsset(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed asset %d\n", id)
				return nil
			})
		},
	}
}

func newAssetListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all assets with creator and tags",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, _ := cmd.Flags().GetString("tag")

			return withCatalog(func(ctx context.Context, svc catalog.Service) error {
				views, err := svc.ListAssetsView(ctx)
				if err != nil {
					return err
				}
				return printAssets(cmd.OutOrStdout(), filterByTag(views, tag))
			})
		},
	}

	cmd.Flags().String("tag", "", "only list assets carrying this tag")

	return cmd
}

func filterByTag(views []models.AssetView, tag string) []models.AssetView {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return views
	}

	var out []models.AssetView
	for _, v := range views {
		for _, name := range v.TagNames() {
			if name == tag {
				out = append(out, v)
				break
			}
		}
	}
	return out
}

func printAssets(out io.Writer, views []models.AssetView) error {
	sort.Slice(views, func(i, j int) bool { return views[i].ID < views[j].ID })

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILE\tCREATOR\tUPLOADED\tTAGS\tTHUMBNAIL")
	for _, v := range views {
		names := v.TagNames()
		sort.Strings(names)

		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			v.ID,
			v.Filename,
			v.Creator,
			orDash(v.UploadedOn),
			orDash(strings.Join(names, ", ")),
			orDash(v.ThumbnailPath))
	}
	return w.Flush()
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
