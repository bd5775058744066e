package download

import (
	"context"

	"github.com/ytget/clipshr/internal/model"
	"github.com/ytget/clipshr/internal/progress"
)

// Fetcher defines the interface for the extraction and download service.
type Fetcher interface {
	// Analyze extracts title, duration, thumbnail and streams without downloading
	Analyze(ctx context.Context, url string) (*model.MediaInfo, error)

	// Download fetches url in the requested format. onEvent is called serially
	// on the download's goroutine for every progress notification.
	Download(ctx context.Context, req Request, onEvent func(progress.Event)) (*Result, error)
}

// Request describes one download
type Request struct {
	JobID        string
	URL          string
	Format       string
	ExtractAudio bool
}

// Result is the file written by a successful download
type Result struct {
	Path  string
	Title string
}
