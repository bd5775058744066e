package platform

// Package platform contains OS/platform integration and external tooling glue:
// filesystem helpers, human readable sizes, filename validation, binary lookup
// and parsing of yt-dlp JSON metadata.
