package client

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/mwantia/imagekeeper/pkg/catalog"
	"github.com/spf13/cobra"
)

func NewCreatorCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "creator",
		Aliases: []string{"creators"},
		Short:   "Manage creators and their social handles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Register a new creator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(func(ctx context.Context, svc catalog.Service) error {
				creator, err := svc.CreateCreator(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added creator %d '%s'\n", creator.ID, creator.Name)
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List all creators",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(func(ctx context.Context, svc catalog.Service) error {
				creators, err := svc.ListCreators(ctx)
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tCREATED")
				for _, c := range creators {
					fmt.Fprintf(w, "%d\t%s\t%s\n", c.ID, c.Name, c.CreatedAt.Format("2006-01-02 15:04:05"))
				}
				return w.Flush()
			})
		},
	})

	cmd.AddCommand(newSocialCommand())

	return cmd
}

func newSocialCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "social",
		Short: "Manage social handles of a creator",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <creator> <type> <handle>",
		Short: "Attach a social handle to a creator",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(func(ctx context.Context, svc catalog.Service) error {
				social, err := svc.AddSocial(ctx, args[0], args[2], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s handle '%s' to '%s'\n", social.Type, social.Handle, args[0])
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "ls <creator>",
		Aliases: []string{"list"},
		Short:   "List the social handles of a creator",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(func(ctx context.Context, svc catalog.Service) error {
				socials, err := svc.ListSocials(ctx, args[0])
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "TYPE\tHANDLE")
				for _, s := range socials {
					fmt.Fprintf(w, "%s\t%s\n", s.Type, s.Handle)
				}
				return w.Flush()
			})
		},
	})

	return cmd
}
