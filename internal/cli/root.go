// Package cli implements the gdn command-line interface.
//
// The CLI wraps the pkg/gdn query builder with commands for listing jars,
// channels, versions, and builds, inspecting composed request URLs, and
// managing the response cache. Configuration is read from a TOML file
// (~/.config/gdn/config.toml) with flags taking precedence. All commands
// support --verbose for debug-level logging; loggers travel through
// context.Context.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/xereo/gdn-go/pkg/buildinfo"
)

// rootOpts holds the persistent flags shared by every command.
type rootOpts struct {
	verbose  bool
	config   string // config file path, "" for the default location
	endpoint string // endpoint override, "" to use config
}

// Execute runs the gdn CLI. The context should carry signal cancellation so
// in-flight requests stop on interrupt.
func Execute(ctx context.Context) error {
	opts := &rootOpts{}

	root := &cobra.Command{
		Use:          "gdn",
		Short:        "gdn queries the GDN jars API",
		Long:         `gdn is a client for the GDN API, which serves Minecraft server jars and their channels, versions, and builds. It composes filtered, sorted, paged queries and prints the results.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.config, "config", "", "config file (default ~/.config/gdn/config.toml)")
	root.PersistentFlags().StringVar(&opts.endpoint, "endpoint", "", "API endpoint (overrides config)")

	root.AddCommand(newJarsCmd(opts))
	root.AddCommand(newChannelsCmd(opts))
	root.AddCommand(newVersionsCmd(opts))
	root.AddCommand(newBuildsCmd(opts))
	root.AddCommand(newURLCmd(opts))
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}
