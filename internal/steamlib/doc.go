// Package steamlib locates Steam on the local machine: installation roots,
// library folders from libraryfolders.vdf, app installation directories from
// appmanifest_<id>.acf, and workshop content directories.
//
// Each answer is cached in a snapshot kind of its own for the path TTL.
package steamlib
