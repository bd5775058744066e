package model

import (
	"path/filepath"
	"strings"
)

// PipelineRequest describes which post-processing stages to run on a fetched file
type PipelineRequest struct {
	SourcePath string
	TrimStart  string // optional timestamp accepted by the encoder (e.g. "5" or "00:00:05")
	TrimEnd    string
	ConvertTo  string // optional target extension without the dot
	Compress   bool
	AudioOnly  bool
}

// WantsTrim reports whether either trim bound is set
func (r PipelineRequest) WantsTrim() bool {
	return r.TrimStart != "" || r.TrimEnd != ""
}

// WantsConvert reports whether a target container was requested
func (r PipelineRequest) WantsConvert() bool {
	return r.ConvertTo != ""
}

// WantsCompress reports whether the compress stage applies. Convert takes
// precedence over compression and audio files are never compressed.
func (r PipelineRequest) WantsCompress() bool {
	return r.Compress && !r.AudioOnly && !r.WantsConvert()
}

// IsNoop reports whether the source file is already the final artifact
func (r PipelineRequest) IsNoop() bool {
	return !r.WantsTrim() && !r.WantsConvert() && !(r.Compress && !r.AudioOnly)
}

// PipelineResult is the outcome of a successful pipeline run
type PipelineResult struct {
	FinalPath string    `json:"path"`
	SizeLabel string    `json:"size"`
	Kind      MediaKind `json:"type"`
}

// DownloadOptions carries the caller's choices for one download job
type DownloadOptions struct {
	JobID        string `json:"download_id,omitempty"`
	URL          string `json:"url"`
	SelectionID  string `json:"format_id,omitempty"`
	TrimStart    string `json:"trim_start,omitempty"`
	TrimEnd      string `json:"trim_end,omitempty"`
	ConvertTo    string `json:"convert_to,omitempty"`
	ExtractAudio bool   `json:"extract_audio,omitempty"`
	Compress     *bool  `json:"compress,omitempty"` // nil means the default (true)
}

// CompressEnabled resolves the compress flag with its default
func (o DownloadOptions) CompressEnabled() bool {
	if o.Compress == nil {
		return true
	}
	return *o.Compress
}

// JobResult is returned to the caller once a download job finishes
type JobResult struct {
	JobID     string    `json:"download_id"`
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	SizeLabel string    `json:"size"`
	Kind      MediaKind `json:"type"`
}

// HistoryRecord is one persisted entry of the flat job history
type HistoryRecord struct {
	URL       string    `json:"url"`
	Filename  string    `json:"filename"`
	Kind      MediaKind `json:"type"`
	Format    string    `json:"format"`
	Timestamp string    `json:"timestamp"`
	SizeLabel string    `json:"size"`
}

// DisplayTitle returns the filename without the job id prefix and extension
func (h HistoryRecord) DisplayTitle() string {
	name := strings.TrimSuffix(h.Filename, filepath.Ext(h.Filename))
	if h.Timestamp != "" {
		if trimmed, ok := strings.CutPrefix(name, h.Timestamp+"_"); ok && trimmed != "" {
			return trimmed
		}
	}
	if name == "" {
		return h.URL
	}
	return name
}
