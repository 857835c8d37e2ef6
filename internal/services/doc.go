// Package services defines shared utilities consumed by the fetch pipeline,
// the platform session, and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp the command name, Steam app id, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper. Cache-layer markers
//     (ErrCacheIO, ErrSerialization) never leave the snapshot package; the
//     fetch markers (ErrExternalAPI, ErrTimeout, ErrInternalTask) terminate a
//     single command and are kept distinct so operators can tell an
//     infrastructure bug from an upstream failure.
package services
