package main

import (
	"fmt"
	"os"

	"github.com/mwantia/imagekeeper/cmd/imagekeeper/cli"
	"github.com/mwantia/imagekeeper/cmd/imagekeeper/cli/client"
	"github.com/mwantia/imagekeeper/cmd/imagekeeper/cli/server"
)

var (
	version = "0.0.1-dev"
	commit  = "main"
)

func main() {
	info := cli.VersionInfo{
		Version: version,
		Commit:  commit,
	}
	root := cli.NewRootCommand(info)

	root.AddCommand(cli.NewVersionCommand(info))

	root.AddCommand(server.NewConfigCommand())
	root.AddCommand(server.NewInitCommand())
	root.AddCommand(server.NewMigrateCommand())

	root.AddCommand(client.NewAssetCommand())
	root.AddCommand(client.NewCreatorCommand())
	root.AddCommand(client.NewTagCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
