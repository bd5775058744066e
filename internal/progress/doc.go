package progress

// Package progress keeps the in-memory table of job progress records. Each job
// has a single writer (the goroutine running it) while any number of pollers
// read concurrently. State lives for the process lifetime only.
