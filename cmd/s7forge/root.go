package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	formatJSON  = "json"
	formatTable = "table"
)

func newRootCommand() (*cobra.Command, *commandContext) {
	var flags globalFlags
	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "s7forge",
		Short:         "Steam Workshop and library lookups with a local cache",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Configuration file path")
	pf.Uint32Var(&flags.appID, "app-id", 0, "Steam application id")
	pf.StringVar(&flags.format, "format", formatJSON, "Output format: json or table")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(newWorkshopItemsCommand(ctx))
	rootCmd.AddCommand(newWorkshopPathCommand(ctx))
	rootCmd.AddCommand(newAppInstallationPathCommand(ctx))
	rootCmd.AddCommand(newSteamLibraryPathsCommand(ctx))
	rootCmd.AddCommand(newClearCacheCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newCombinedCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd, ctx
}

type globalFlags struct {
	config  string
	appID   uint32
	format  string
	verbose bool
}

func (f *globalFlags) validate() error {
	switch f.format {
	case formatJSON, formatTable:
		return nil
	default:
		return fmt.Errorf("--format must be %s or %s, got %q", formatJSON, formatTable, f.format)
	}
}
