package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/youssefsiam38/storefront"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	ConfigPath string
	Verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront web server and terminal browser",
		Long:          "Serves the storefront pages and the backend proxy API, or browses the catalog from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "storefront.toml", "path to the TOML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging with the development encoder")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newBrowseCommand(opts))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

// loadConfig reads the config file and environment, then lets apply
// override fields from flags before validation.
func loadConfig(opts *rootOptions, apply func(*storefront.Config)) (*storefront.Config, error) {
	cfg, err := storefront.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if apply != nil {
		apply(cfg)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
