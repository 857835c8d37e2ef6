package preflight

import (
	"context"

	"github.com/7otion/s7forge/internal/config"
	"github.com/7otion/s7forge/internal/steamlib"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every preflight check for the given config. The Web API
// check is reported as failed, not skipped, when no key is configured.
func RunAll(ctx context.Context, cfg *config.Config, locator *steamlib.Locator) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Cache directory", cfg.Cache.Dir),
	}
	if cfg.Logging.Dir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Logging.Dir))
	}
	if locator != nil {
		results = append(results, CheckSteamLibraries(locator))
	}
	results = append(results, CheckWebAPI(ctx, cfg.Steam.WebAPIBaseURL, cfg.Steam.WebAPIKey))
	return results
}

// Failed counts the results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}
