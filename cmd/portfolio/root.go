package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	portfolio "github.com/goliatone/go-portfolio"
	"github.com/goliatone/go-portfolio/internal/runtimeconfig"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// moduleBuilder is swapped in tests.
var moduleBuilder = portfolio.New

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "portfolio",
		Short:         "Portfolio site backend and Markdown tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file (yaml|toml|json)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newRenderCmd(opts))
	cmd.AddCommand(newPreviewCmd(opts))
	cmd.AddCommand(newSyncCmd(opts))
	cmd.AddCommand(newConfigCmd())
	return cmd
}

func (o *rootOptions) load() (runtimeconfig.Config, error) {
	v := viper.New()
	if o.configPath != "" {
		v.SetConfigFile(o.configPath)
	}
	return runtimeconfig.Load(v)
}

// readSource reads a Markdown file, or stdin when path is "-".
func readSource(cmd *cobra.Command, path string) ([]byte, error) {
	if strings.TrimSpace(path) == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "List configuration keys and their defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, o := range runtimeconfig.Options() {
				_, _ = fmt.Fprintf(out, "%s = %v\n    %s\n", o.Key, o.Value, o.Comment)
			}
			return nil
		},
	}
}
