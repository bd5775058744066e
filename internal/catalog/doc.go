package catalog

// Package catalog turns the raw stream list reported by the extractor into a
// ranked, deduplicated set of selectable offers. It performs no I/O.
