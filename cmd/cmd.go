// Package cmd contains the cobra command factory functions of the k6x commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/grafana/k6x"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// environment variable prefix of the flags
const envPrefix = "K6X"

// options common to all the commands
type options struct {
	with        []string
	concurrency int
	logLevel    string
}

func (o *options) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(
		&o.with,
		"with",
		"w",
		[]string{},
		"additional requirement in the form name[@version] (k6 for k6 itself)",
	)
	cmd.Flags().IntVar(&o.concurrency, "concurrency", 0, "number of scripts read concurrently (default number of CPUs)")
	cmd.Flags().StringVar(&o.logLevel, "log-level", "warn", "log level")
}

// setup applies the environment to the unset flags and configures logging.
func (o *options) setup(cmd *cobra.Command) error {
	if err := bindEnv(cmd.Flags()); err != nil {
		return err
	}

	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}

	logrus.SetLevel(level)
	logrus.SetOutput(cmd.ErrOrStderr())

	return nil
}

func (o *options) resolver() (*k6x.Resolver, error) {
	extra, err := k6x.ParseRequirements(o.with...)
	if err != nil {
		return nil, err
	}

	return k6x.NewResolver(k6x.Options{
		Fs:          afero.NewOsFs(),
		Concurrency: o.concurrency,
		Extra:       extra,
	}), nil
}

// bindEnv sets the flags not given in the command line from K6X_<FLAG> environment variables.
func bindEnv(flags *pflag.FlagSet) error {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var err error

	flags.VisitAll(func(flag *pflag.Flag) {
		if err != nil || flag.Changed || !v.IsSet(flag.Name) {
			return
		}

		values := []string{v.GetString(flag.Name)}
		if flag.Value.Type() == "stringArray" {
			values = strings.FieldsFunc(values[0], func(r rune) bool { return r == ',' || r == ' ' })
		}

		for _, value := range values {
			if serr := flag.Value.Set(value); serr != nil {
				err = fmt.Errorf("%s_%s: %w", envPrefix, strings.ToUpper(strings.ReplaceAll(flag.Name, "-", "_")), serr)

				return
			}
		}
	})

	return err
}
