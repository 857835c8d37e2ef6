// Package config loads, normalizes, and validates s7forge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STEAM_WEB_API_KEY (optionally sourced from a .env file). The Config type
// centralizes cache locations and TTLs, the fetch bridge timing, and logging
// so every command resolves them in one pass.
package config
