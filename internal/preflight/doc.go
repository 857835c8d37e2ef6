// Package preflight provides readiness checks for the filesystem paths and
// external services s7forge depends on.
//
// The CLI "s7forge check" command runs RunAll and prints one line per
// check. Checks never mutate state; the Web API probe is a single request
// with no retries.
package preflight
