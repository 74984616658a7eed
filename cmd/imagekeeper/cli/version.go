package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

type VersionInfo struct {
	Version string
	Commit  string
}

func (info VersionInfo) String() string {
	return fmt.Sprintf("%s.%s", info.Version, info.Commit)
}

func NewVersionCommand(info VersionInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the ImageKeeper version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "imagekeeper %s (%s %s/%s)\n",
				info, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
