package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/grafana/k6x"
	"github.com/spf13/cobra"
)

var ErrUnsupportedPlatform = errors.New("unsupported platform") //nolint:revive

const manifestLong = `
prints the build manifest of a k6 test script.

The manifest lists the minimum k6 version and the extensions, with their minimum versions,
required by the script and by the local scripts it imports or re-exports.
Unconstrained modules are listed with version 0.0.0.

By default the manifest is printed in its canonical form, k6 first and extensions sorted by name:

  k6@v0.50.0,k6/x/faker@v0.3.0,k6/x/sql@v0.4.0

--key prints the cache key of the manifest, --path the build service path of the build
and --query the build service query path (extension names only) for the target platform.
`

const manifestExample = `
# print the manifest of script.js
k6x manifest script.js

# print the cache key of the manifest of script.js
k6x manifest --key script.js

# print the build service query path for linux/arm64
k6x manifest --query --platform linux/arm64 script.js
`

// NewManifest creates new cobra command for manifest command.
func NewManifest() *cobra.Command {
	var (
		opts         options
		jsonFlag     bool
		keyFlag      bool
		pathFlag     bool
		queryFlag    bool
		platformFlag string
	)

	cmd := &cobra.Command{
		Use:     "manifest [flags] [script]",
		Short:   "print the build manifest of a k6 test script",
		Long:    manifestLong,
		Example: manifestExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.setup(cmd); err != nil {
				return err
			}

			platform := k6x.RuntimePlatform()
			if platformFlag != "" {
				var err error

				platform, err = k6x.ParsePlatform(platformFlag)
				if err != nil {
					return err
				}
			}

			if (pathFlag || queryFlag) && !platform.Supported() {
				return fmt.Errorf("%w: %s", ErrUnsupportedPlatform, platform)
			}

			resolver, err := opts.resolver()
			if err != nil {
				return err
			}

			manifest, err := resolver.Resolve(cmd.Context(), scriptArg(args))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			switch {
			case jsonFlag:
				encoder := json.NewEncoder(out)

				encoder.SetEscapeHTML(false)
				encoder.SetIndent("", "  ")

				return encoder.Encode(manifest)
			case keyFlag:
				_, err = fmt.Fprintln(out, manifest.Key())
			case pathFlag:
				_, err = fmt.Fprintln(out, manifest.Path(platform))
			case queryFlag:
				_, err = fmt.Fprintln(out, manifest.QueryPath(platform))
			default:
				_, err = fmt.Fprintln(out, manifest.String())
			}

			return err
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "print the manifest in JSON format")
	cmd.Flags().BoolVar(&keyFlag, "key", false, "print the cache key of the manifest")
	cmd.Flags().BoolVar(&pathFlag, "path", false, "print the build service path of the build")
	cmd.Flags().BoolVar(&queryFlag, "query", false, "print the build service query path")
	cmd.Flags().StringVarP(&platformFlag, "platform", "p", "", "target platform in the format os/arch (default runtime platform)")
	cmd.MarkFlagsMutuallyExclusive("json", "key", "path", "query")

	return cmd
}
