// Package fetch retrieves corpus files from remote sources into the local cache.
//
// A Source opens a URL for reading. HTTPSource serves http and https URLs,
// S3Source serves s3://bucket/key URLs with anonymous credentials, and Mux
// routes each URL to the source registered for its scheme.
//
// Download streams a URL into a temporary file next to the destination and
// renames it into place once the body is complete (and, optionally, its
// SHA-256 matches), so a cache file is either absent or whole.
package fetch
