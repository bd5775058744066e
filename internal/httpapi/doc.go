package httpapi

// Package httpapi exposes the job orchestrator over HTTP with gin: analyze,
// synchronous and background downloads, progress polling, history management
// and static serving of finished media files.
