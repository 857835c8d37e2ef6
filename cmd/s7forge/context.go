package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/7otion/s7forge/internal/config"
	"github.com/7otion/s7forge/internal/logging"
	"github.com/7otion/s7forge/internal/platform"
	"github.com/7otion/s7forge/internal/services"
	"github.com/7otion/s7forge/internal/snapshot"
	"github.com/7otion/s7forge/internal/steamlib"
	"github.com/7otion/s7forge/internal/workshop"
)

type commandContext struct {
	flags     *globalFlags
	requestID string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger

	backendOnce sync.Once
	backend     snapshot.Backend

	serviceOnce sync.Once
	service     *workshop.Service
	serviceErr  error
}

func newCommandContext(flags *globalFlags) *commandContext {
	return &commandContext{
		flags:     flags,
		requestID: uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "config", "load", "", err)
			return
		}
		if c.flags.verbose {
			cfg.Logging.Level = "debug"
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			logger, _ = logging.New(logging.Options{Level: cfg.Logging.Level})
		}
		c.logger = logger
	})
	return c.logger
}

// requestContext tags ctx with the command name, app id, and the invocation's
// correlation id.
func (c *commandContext) requestContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithCommand(ctx, cmd.Name())
	ctx = services.WithRequestID(ctx, c.requestID)
	if c.flags.appID != 0 {
		ctx = services.WithAppID(ctx, c.flags.appID)
	}
	return ctx
}

func (c *commandContext) requireAppID() (uint32, error) {
	if c.flags.appID == 0 {
		return 0, services.Wrap(services.ErrConfiguration, "cli", "", "--app-id is required", nil)
	}
	return c.flags.appID, nil
}

func (c *commandContext) tableMode() bool {
	return c.flags.format == formatTable
}

// cacheBackend opens the configured snapshot backend once. Any failure
// degrades to an in-memory backend: the cache is never required.
func (c *commandContext) cacheBackend() snapshot.Backend {
	c.backendOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err == nil {
			err = cfg.EnsureCacheDir()
		}
		if err == nil {
			c.backend, err = snapshot.Open(cfg.Cache.Backend, cfg.Cache.Dir)
		}
		if err != nil {
			logging.WarnWithContext(c.log(), "cache unavailable", "cache_open_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check cache.dir permissions and cache.backend"),
				logging.String(logging.FieldImpact, "results are not cached for this run"),
			)
			c.backend = snapshot.NewMemoryBackend()
		}
	})
	return c.backend
}

func (c *commandContext) locator() (*steamlib.Locator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return steamlib.New(c.cacheBackend(), cfg.PathTTL(),
		steamlib.WithInstallPaths(cfg.Steam.InstallPaths),
		steamlib.WithLogger(c.log()),
	), nil
}

func (c *commandContext) workshopService() (*workshop.Service, error) {
	c.serviceOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.serviceErr = err
			return
		}
		logger := c.log()
		store := snapshot.NewStore[uint64, workshop.Item](c.cacheBackend(), snapshot.KindWorkshopItems, cfg.ItemTTL(), snapshot.WithLogger(logger))
		manager := platform.NewManager(cfg.Steam.WebAPIKey, cfg.Steam.WebAPIBaseURL, logger, platform.WithTimeout(cfg.RequestTimeout()))
		bridgeCfg := workshop.BridgeConfig{
			Timeout:         cfg.FetchTimeout(),
			PollInterval:    cfg.PollInterval(),
			QueueSize:       cfg.Fetch.PumpQueueSize,
			PrimaryFileType: cfg.Fetch.PrimaryFileType,
			IncludeChildren: cfg.Fetch.IncludeChildren,
		}
		c.service = workshop.NewService(store, manager, manager.LazyResolver(), bridgeCfg,
			workshop.WithLogger(logger),
			workshop.WithUnknownName(cfg.Fetch.UnknownOwnerName),
		)
	})
	return c.service, c.serviceErr
}

func (c *commandContext) close() {
	if c.backend != nil {
		_ = c.backend.Close()
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
