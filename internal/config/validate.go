package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable. The Steam Web API key is not
// required here: path lookups work without it, and the platform session
// reports a configuration error when a fetch actually needs it.
func (c *Config) Validate() error {
	if err := c.validateSteam(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSteam() error {
	parsed, err := url.Parse(c.Steam.WebAPIBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("steam.web_api_base_url must be an absolute URL, got %q", c.Steam.WebAPIBaseURL)
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case BackendFile, BackendBolt, BackendSQLite:
	default:
		return fmt.Errorf("cache.backend must be one of %q, %q, %q; got %q", BackendFile, BackendBolt, BackendSQLite, c.Cache.Backend)
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.PollIntervalMS >= c.Fetch.TimeoutSeconds*1000 {
		return errors.New("fetch.poll_interval_ms must be shorter than fetch.timeout_seconds")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error; got %q", c.Logging.Level)
	}
	return nil
}
