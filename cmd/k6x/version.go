package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// build version, can be set at build time using ldflags:
// -ldflags='-X main.version=<version>'
var version = "dev"

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "version",
		Long:  "returns the current version of the k6x tool",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "k6x %s\n", version)
		},
	}

	return cmd
}
