package model

// Package model defines domain data structures shared across the app: stream
// descriptors and catalog offers, progress records with their phase enum, and
// the pipeline request/result pair. Structures carry JSON tags so handlers can
// return them directly.
