package config

const (
	defaultConfigPath       = "~/.config/s7forge/config.toml"
	defaultWebAPIBaseURL    = "https://api.steampowered.com"
	defaultRequestTimeout   = 10
	defaultCacheBackend     = BackendFile
	defaultItemTTLHours     = 24
	defaultPathTTLMinutes   = 60
	defaultFetchTimeout     = 30
	defaultPollIntervalMS   = 10
	defaultPumpQueueSize    = 32
	defaultPrimaryFileType  = "Community"
	defaultUnknownOwnerName = "[unknown]"
	defaultLogFormat        = "console"
	defaultLogLevel         = "warn"
)

// Cache backend names accepted by cache.backend.
const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Steam: Steam{
			WebAPIBaseURL:  defaultWebAPIBaseURL,
			RequestTimeout: defaultRequestTimeout,
		},
		Cache: Cache{
			Backend:        defaultCacheBackend,
			Dir:            defaultCacheDir(),
			ItemTTLHours:   defaultItemTTLHours,
			PathTTLMinutes: defaultPathTTLMinutes,
		},
		Fetch: Fetch{
			TimeoutSeconds:   defaultFetchTimeout,
			PollIntervalMS:   defaultPollIntervalMS,
			PumpQueueSize:    defaultPumpQueueSize,
			PrimaryFileType:  defaultPrimaryFileType,
			IncludeChildren:  true,
			UnknownOwnerName: defaultUnknownOwnerName,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
