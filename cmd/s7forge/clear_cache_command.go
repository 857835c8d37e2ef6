package main

import (
	"github.com/spf13/cobra"

	"github.com/7otion/s7forge/internal/logging"
	"github.com/7otion/s7forge/internal/services"
	"github.com/7otion/s7forge/internal/snapshot"
)

func newClearCacheCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear-cache",
		Short: "Remove every cached snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend := ctx.cacheBackend()
			cleared := make([]string, 0, len(snapshot.Kinds))
			for _, kind := range snapshot.Kinds {
				if err := backend.Remove(kind); err != nil {
					return services.Wrap(services.ErrCacheIO, "cli", "clear-cache", kind, err)
				}
				cleared = append(cleared, kind)
			}
			ctx.log().Info("cache cleared", logging.Int("kinds", len(cleared)))
			if ctx.tableMode() {
				rows := make([][]string, 0, len(cleared))
				for _, kind := range cleared {
					rows = append(rows, []string{kind})
				}
				return writeTable(cmd, []string{"cleared cache"}, rows, nil)
			}
			return writeJSON(cmd, map[string][]string{"cleared": cleared})
		},
	}
}
