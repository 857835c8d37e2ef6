package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Steam contains Web API credentials and local installation overrides.
type Steam struct {
	WebAPIKey      string   `toml:"web_api_key"`
	WebAPIBaseURL  string   `toml:"web_api_base_url"`
	RequestTimeout int      `toml:"request_timeout"`
	InstallPaths   []string `toml:"install_paths"`
}

// Cache contains configuration for the on-disk snapshot caches.
type Cache struct {
	Backend        string `toml:"backend"` // "file", "bolt" or "sqlite"
	Dir            string `toml:"dir"`
	ItemTTLHours   int    `toml:"item_ttl_hours"`
	PathTTLMinutes int    `toml:"path_ttl_minutes"`
}

// Fetch contains timing knobs for the item fetch bridge.
type Fetch struct {
	TimeoutSeconds   int    `toml:"timeout_seconds"`
	PollIntervalMS   int    `toml:"poll_interval_ms"`
	PumpQueueSize    int    `toml:"pump_queue_size"`
	PrimaryFileType  string `toml:"primary_file_type"`
	IncludeChildren  bool   `toml:"include_children"`
	UnknownOwnerName string `toml:"unknown_owner_name"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Config encapsulates all configuration values for s7forge.
//
// Configuration sections by subsystem:
//   - Steam: Web API credentials and Steam installation overrides
//   - Cache: snapshot backend, location, and TTLs
//   - Fetch: bridge timeout, pump cadence, and item filtering
//   - Logging: log format, level, and optional log directory
type Config struct {
	Steam   Steam   `toml:"steam"`
	Cache   Cache   `toml:"cache"`
	Fetch   Fetch   `toml:"fetch"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	loadDotEnv()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("s7forge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureCacheDir creates the cache directory. Failure is reported but callers
// treat it as "no cache" rather than aborting.
func (c *Config) EnsureCacheDir() error {
	if strings.TrimSpace(c.Cache.Dir) == "" {
		return errors.New("cache.dir is empty")
	}
	if err := os.MkdirAll(c.Cache.Dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory %q: %w", c.Cache.Dir, err)
	}
	return nil
}

// ItemTTL returns the validity window of the workshop item snapshot.
func (c *Config) ItemTTL() time.Duration {
	return time.Duration(c.Cache.ItemTTLHours) * time.Hour
}

// PathTTL returns the validity window of the install, library, and workshop path snapshots.
func (c *Config) PathTTL() time.Duration {
	return time.Duration(c.Cache.PathTTLMinutes) * time.Minute
}

// FetchTimeout returns the hard wall-clock limit for one batched item fetch.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// PollInterval returns the sleep between worker poll iterations.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Fetch.PollIntervalMS) * time.Millisecond
}

// RequestTimeout returns the per-request HTTP timeout for the Steam Web API.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Steam.RequestTimeout) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "s7forge")
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "s7forge")
	}
	return "~/.cache/s7forge"
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
