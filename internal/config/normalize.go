package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// loadDotEnv reads a .env file from the working directory when present.
// Variables already set in the environment win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: ignoring unreadable .env file: %v\n", err)
	}
}

func (c *Config) normalize() error {
	if err := c.normalizeSteam(); err != nil {
		return err
	}
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizeFetch()
	return c.normalizeLogging()
}

func (c *Config) normalizeSteam() error {
	c.Steam.WebAPIKey = strings.TrimSpace(c.Steam.WebAPIKey)
	if c.Steam.WebAPIKey == "" {
		if value, ok := os.LookupEnv("STEAM_WEB_API_KEY"); ok {
			c.Steam.WebAPIKey = strings.TrimSpace(value)
		}
	}
	c.Steam.WebAPIBaseURL = strings.TrimRight(strings.TrimSpace(c.Steam.WebAPIBaseURL), "/")
	if c.Steam.WebAPIBaseURL == "" {
		c.Steam.WebAPIBaseURL = defaultWebAPIBaseURL
	}
	if c.Steam.RequestTimeout <= 0 {
		c.Steam.RequestTimeout = defaultRequestTimeout
	}

	paths := make([]string, 0, len(c.Steam.InstallPaths))
	seen := make(map[string]struct{}, len(c.Steam.InstallPaths))
	for i, raw := range c.Steam.InstallPaths {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		expanded, err := expandPath(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("steam.install_paths[%d]: %w", i, err)
		}
		if _, dup := seen[expanded]; dup {
			continue
		}
		seen[expanded] = struct{}{}
		paths = append(paths, expanded)
	}
	c.Steam.InstallPaths = paths
	return nil
}

func (c *Config) normalizeCache() error {
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = defaultCacheBackend
	}
	if strings.TrimSpace(c.Cache.Dir) == "" {
		c.Cache.Dir = defaultCacheDir()
	}
	var err error
	if c.Cache.Dir, err = expandPath(c.Cache.Dir); err != nil {
		return fmt.Errorf("cache.dir: %w", err)
	}
	if c.Cache.ItemTTLHours <= 0 {
		c.Cache.ItemTTLHours = defaultItemTTLHours
	}
	if c.Cache.PathTTLMinutes <= 0 {
		c.Cache.PathTTLMinutes = defaultPathTTLMinutes
	}
	return nil
}

func (c *Config) normalizeFetch() {
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = defaultFetchTimeout
	}
	if c.Fetch.PollIntervalMS <= 0 {
		c.Fetch.PollIntervalMS = defaultPollIntervalMS
	}
	if c.Fetch.PumpQueueSize <= 0 {
		c.Fetch.PumpQueueSize = defaultPumpQueueSize
	}
	c.Fetch.PrimaryFileType = strings.TrimSpace(c.Fetch.PrimaryFileType)
	if c.Fetch.PrimaryFileType == "" {
		c.Fetch.PrimaryFileType = defaultPrimaryFileType
	}
	if strings.TrimSpace(c.Fetch.UnknownOwnerName) == "" {
		c.Fetch.UnknownOwnerName = defaultUnknownOwnerName
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		c.Logging.Dir = ""
		return nil
	}
	var err error
	if c.Logging.Dir, err = expandPath(c.Logging.Dir); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
