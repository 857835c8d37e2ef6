package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/7otion/s7forge/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check cache, Steam installation, and Web API readiness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureCacheDir(); err != nil {
				return err
			}
			locator, err := ctx.locator()
			if err != nil {
				return err
			}

			results := preflight.RunAll(ctx.requestContext(cmd), cfg, locator)
			if ctx.tableMode() {
				rows := make([][]string, 0, len(results))
				for _, r := range results {
					status := "ok"
					if !r.Passed {
						status = "failed"
					}
					rows = append(rows, []string{r.Name, status, r.Detail})
				}
				if err := writeTable(cmd, []string{"check", "status", "detail"}, rows, nil); err != nil {
					return err
				}
			} else if err := writeJSON(cmd, results); err != nil {
				return err
			}

			if failed := preflight.Failed(results); failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			return nil
		},
	}
}
