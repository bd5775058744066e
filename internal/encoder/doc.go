package encoder

// Package encoder wraps the ffmpeg binary. Each pipeline stage issues one
// Request with explicit input and output paths and either stream copy or a
// named codec with quality parameters. Calls block until the process exits.
