package history

// Package history persists the flat list of finished jobs as a JSON file next
// to the media directory. Access is serialized in-process with a mutex and
// across processes with an advisory file lock.
