package main

import (
	"github.com/grafana/k6x/cmd"
	"github.com/spf13/cobra"
)

// newRootCmd returns a cobra.Command for k6x command
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "k6x",
		Short: "k6 script requirements tool",
		Long:  "k6x is a CLI tool for resolving the k6 version and extensions required by k6 test scripts",
		// prevent the usage help to printed to stderr when an error is reported by a subcommand
		SilenceUsage: true,
		// this is needed to prevent cobra to print errors reported by subcommands in the stderr
		SilenceErrors: true,
	}

	root.AddCommand(cmd.NewDeps())
	root.AddCommand(cmd.NewManifest())
	root.AddCommand(newVersionCmd())

	return root
}
