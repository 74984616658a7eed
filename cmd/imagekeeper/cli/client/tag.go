package client

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/mwantia/imagekeeper/pkg/catalog"
	"github.com/spf13/cobra"
)

func NewTagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tag",
		Aliases: []string{"tags"},
		Short:   "Manage the tag vocabulary",
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Register a new tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")
			category, _ := cmd.Flags().GetString("category")

			return withCatalog(func(ctx context.Context, svc catalog.Service) error {
				tag, err := svc.CreateTag(ctx, args[0], description, category)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added tag %d '%s'\n", tag.ID, tag.Name)
				return nil
			})
		},
	}
	add.Flags().String("description", "", "free text description")
	add.Flags().String("category", "", "category used to group tags")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all tags",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(func(ctx context.Context, svc catalog.Service) error {
				list, err := svc.ListTags(ctx)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tDESCRIPTION")
				for _, t := range list {
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", t.ID, t.Name, deref(t.Category), deref(t.Description))
				}
				return w.Flush()
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "suggest <entry>",
		Short: "Complete the last term of a comma separated tag entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(func(ctx context.Context, svc catalog.Service) error {
				suggestions, err := svc.SuggestTags(ctx, args[0])
				if err != nil {
					return err
				}
				for _, s := range suggestions {
					fmt.Fprintln(cmd.OutOrStdout(), s)
				}
				return nil
			})
		},
	})

	return cmd
}

func deref(value *string) string {
	if value == nil {
		return "-"
	}
	return *value
}
