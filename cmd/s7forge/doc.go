// Command s7forge answers Steam Workshop and Steam library questions from the
// command line, printing JSON (or a table with --format table).
//
// Workshop item details come from the Steam Web API through the fetch bridge
// and are cached for a day; install, library, and workshop paths are read
// from the local Steam installation and cached for an hour. Cache failures
// never fail a command.
package main
