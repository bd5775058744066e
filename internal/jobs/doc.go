package jobs

// Package jobs coordinates one download job end to end: format resolution,
// fetch with live progress, post-processing, and history persistence. It is
// the single entry point used by the HTTP layer and the CLI.
