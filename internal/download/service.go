package download

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/clipshr/internal/apperr"
	"github.com/ytget/clipshr/internal/model"
	"github.com/ytget/clipshr/internal/platform"
	"github.com/ytget/clipshr/internal/progress"
)

// Format selectors
const (
	FormatBestAudio     = "bestaudio/best"
	FormatBestMerged    = "bestvideo+bestaudio/best"
	FormatBestSelection = "best"
)

// Defaults for yt-dlp invocations
const (
	DefaultSocketTimeout    = 30 * time.Second
	DefaultRetries          = 3
	DefaultMergeFormat      = "mp4"
	DefaultAudioFormat      = "mp3"
	DefaultAudioQuality     = "192"
	DefaultProgressInterval = 500 * time.Millisecond
	OutputTemplate          = "%(title)s.%(ext)s"
)

// Options tune the yt-dlp invocations
type Options struct {
	SocketTimeout    time.Duration
	Retries          int
	MergeFormat      string
	AudioFormat      string
	AudioQuality     string
	ProgressInterval time.Duration
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		SocketTimeout:    DefaultSocketTimeout,
		Retries:          DefaultRetries,
		MergeFormat:      DefaultMergeFormat,
		AudioFormat:      DefaultAudioFormat,
		AudioQuality:     DefaultAudioQuality,
		ProgressInterval: DefaultProgressInterval,
	}
}

// Service handles extraction and download operations
type Service struct {
	mediaDir string
	options  Options
	logger   hclog.Logger
}

// NewService creates a new download service writing into mediaDir
func NewService(mediaDir string, options Options, logger hclog.Logger) *Service {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if options.ProgressInterval <= 0 {
		options.ProgressInterval = DefaultProgressInterval
	}
	return &Service{
		mediaDir: mediaDir,
		options:  options,
		logger:   logger,
	}
}

// EnsureInstalled resolves the yt-dlp binary, downloading it when missing
func (s *Service) EnsureInstalled(ctx context.Context) error {
	install, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to install yt-dlp: %w", err)
	}
	s.logger.Info("yt-dlp ready", "path", install.Executable, "version", install.Version)
	return nil
}

// Analyze extracts metadata for url without downloading any media
func (s *Service) Analyze(ctx context.Context, url string) (*model.MediaInfo, error) {
	if strings.TrimSpace(url) == "" {
		return nil, apperr.Invalid("No URL provided")
	}

	dl := ytdlp.New().
		DumpSingleJSON().
		SkipDownload().
		NoPlaylist().
		NoWarnings().
		SocketTimeout(s.options.SocketTimeout.Seconds())

	s.logger.Debug("extracting info", "url", url)
	result, err := dl.Run(ctx, url)
	if err != nil {
		return nil, apperr.ClassifyExtraction(extractorError(result, err))
	}

	info, err := platform.ParseMediaInfo([]byte(result.Stdout))
	if err != nil {
		return nil, apperr.ClassifyExtraction(err)
	}

	s.logger.Debug("extracted info", "url", url, "title", info.Title, "streams", len(info.Streams))
	return info, nil
}

// Download fetches req.URL into the media directory. The output name starts
// with the job id so the file can be located after post-processing by yt-dlp.
func (s *Service) Download(ctx context.Context, req Request, onEvent func(progress.Event)) (*Result, error) {
	if strings.TrimSpace(req.URL) == "" {
		return nil, apperr.Invalid("No URL provided")
	}
	if err := platform.CreateDirectoryIfNotExists(s.mediaDir); err != nil {
		return nil, apperr.FileSystem("failed to create media directory", err)
	}

	dl := s.buildCommand(req)

	var title string
	dl.ProgressFunc(s.options.ProgressInterval, func(update ytdlp.ProgressUpdate) {
		if title == "" && update.Info != nil && update.Info.Title != nil {
			title = *update.Info.Title
		}
		if onEvent != nil {
			onEvent(EventFromUpdate(update, time.Now()))
		}
	})

	log := s.logger.With("job_id", req.JobID)
	log.Info("starting download", "url", req.URL, "format", req.Format, "audio", req.ExtractAudio)

	result, err := dl.Run(ctx, req.URL)
	if err != nil {
		log.Error("download failed", "error", err)
		return nil, apperr.ClassifyExtraction(extractorError(result, err))
	}

	path, err := s.locateOutput(result, req)
	if err != nil {
		return nil, apperr.New(apperr.KindExtractionFailed, "downloaded file not found", err)
	}
	if title == "" {
		title = titleFromPath(path, req.JobID)
	}

	log.Info("download finished", "path", path)
	return &Result{Path: path, Title: title}, nil
}

// buildCommand configures yt-dlp for req
func (s *Service) buildCommand(req Request) *ytdlp.Command {
	dl := ytdlp.New().
		ForceOverwrites().
		RestrictFilenames().
		NoPlaylist().
		NoWarnings().
		Format(req.Format).
		Output(filepath.Join(s.mediaDir, req.JobID+"_"+OutputTemplate)).
		Retries(strconv.Itoa(s.options.Retries)).
		FragmentRetries(strconv.Itoa(s.options.Retries)).
		SocketTimeout(s.options.SocketTimeout.Seconds())

	if req.ExtractAudio {
		return dl.ExtractAudio().
			AudioFormat(s.options.AudioFormat).
			AudioQuality(s.options.AudioQuality)
	}
	return dl.MergeOutputFormat(s.options.MergeFormat)
}

// locateOutput finds the final file, preferring what yt-dlp reported
func (s *Service) locateOutput(result *ytdlp.Result, req Request) (string, error) {
	if result != nil {
		info, err := result.GetExtractedInfo()
		if err == nil && len(info) > 0 && info[0].Filename != nil {
			// audio extraction replaces the reported file
			if path := *info[0].Filename; platform.FileExists(path) && !req.ExtractAudio {
				return path, nil
			}
		}
	}

	preferExt := s.options.MergeFormat
	if req.ExtractAudio {
		preferExt = s.options.AudioFormat
	}
	return platform.FindFileByPrefix(s.mediaDir, req.JobID+"_", preferExt)
}

// EventFromUpdate converts a yt-dlp progress update into a progress event.
// Speed is averaged since the transfer started.
func EventFromUpdate(update ytdlp.ProgressUpdate, now time.Time) progress.Event {
	ev := progress.Event{
		Status:          string(update.Status),
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
	}

	if !update.Started.IsZero() {
		elapsed := now.Sub(update.Started)
		if elapsed.Seconds() > 0 {
			ev.SpeedBytesPerSec = float64(update.DownloadedBytes) / elapsed.Seconds()
		}
	}

	if eta := update.ETA(); eta > 0 {
		ev.ETASeconds = int(eta.Seconds())
	}
	return ev
}

// ResolveFormat picks the yt-dlp format selector for a job
func ResolveFormat(selectionID string, extractAudio bool) string {
	switch {
	case extractAudio:
		return FormatBestAudio
	case selectionID != "" && selectionID != FormatBestSelection:
		return selectionID
	default:
		return FormatBestMerged
	}
}

// extractorError attaches yt-dlp's own error line to err so that it can be
// classified
func extractorError(result *ytdlp.Result, err error) error {
	if result == nil {
		return err
	}
	if line := lastErrorLine(result.Stderr); line != "" {
		return fmt.Errorf("%s: %w", line, err)
	}
	return err
}

// lastErrorLine returns the last "ERROR:" line of stderr, or its last
// non-empty line
func lastErrorLine(stderr string) string {
	var last string
	lines := strings.Split(stderr, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "ERROR:") {
			return line
		}
		if last == "" {
			last = line
		}
	}
	return last
}

// titleFromPath recovers a display title from the output filename
func titleFromPath(path, jobID string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.TrimPrefix(name, jobID+"_")
	return strings.ReplaceAll(name, "_", " ")
}
