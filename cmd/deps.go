package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

const depsLong = `
prints the requirements of a k6 test script.

The requirements are declared with directives at the beginning of the script
and of every local script it imports or re-exports:

  "use k6 >= 0.50";
  "use k6 with k6/x/faker >= 0.3";

Requirements on the same module are merged. Incompatible requirements are reported as errors.
`

const depsExample = `
# print the requirements of script.js
k6x deps script.js

# print the requirements of script.js in JSON format, requiring also k6/x/sql
k6x deps --json --with k6/x/sql@v0.4.0 script.js

# print the requirements given in the command line
k6x deps --with k6@v0.50.0 --with k6/x/faker
`

// NewDeps creates new cobra command for deps command.
func NewDeps() *cobra.Command {
	var (
		opts     options
		jsonFlag bool
	)

	cmd := &cobra.Command{
		Use:     "deps [flags] [script]",
		Short:   "print the requirements of a k6 test script",
		Long:    depsLong,
		Example: depsExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.setup(cmd); err != nil {
				return err
			}

			resolver, err := opts.resolver()
			if err != nil {
				return err
			}

			reqs, err := resolver.Collect(cmd.Context(), scriptArg(args))
			if err != nil {
				return err
			}

			if !jsonFlag {
				_, err = fmt.Fprint(cmd.OutOrStdout(), reqs.String())

				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())

			encoder.SetEscapeHTML(false)
			encoder.SetIndent("", "  ")

			return encoder.Encode(reqs)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "print the requirements in JSON format")

	return cmd
}

func scriptArg(args []string) string {
	if len(args) == 0 {
		return ""
	}

	return args[0]
}
