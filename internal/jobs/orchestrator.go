package jobs

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/ytget/clipshr/internal/apperr"
	"github.com/ytget/clipshr/internal/catalog"
	"github.com/ytget/clipshr/internal/download"
	"github.com/ytget/clipshr/internal/model"
	"github.com/ytget/clipshr/internal/platform"
	"github.com/ytget/clipshr/internal/progress"
)

// Job id layout
const (
	JobTimestampLayout = "20060102_150405"
	jobSuffixLen       = 8
)

// ETA labels shown while post-processing runs
const (
	PostProcessingETALabel = "Post-processing..."
	CompressingETALabel    = "Compressing..."
)

// Orchestrator runs download jobs
type Orchestrator struct {
	fetcher   download.Fetcher
	processor Processor
	history   HistoryStore
	tracker   *progress.Tracker
	logger    hclog.Logger
	retention time.Duration
	now       func() time.Time
	wg        sync.WaitGroup
}

// Options configure an orchestrator
type Options struct {
	// Retention is how long finished progress records stay pollable; zero keeps them forever
	Retention time.Duration
	Logger    hclog.Logger
}

// New creates an orchestrator
func New(fetcher download.Fetcher, processor Processor, history HistoryStore, tracker *progress.Tracker, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Orchestrator{
		fetcher:   fetcher,
		processor: processor,
		history:   history,
		tracker:   tracker,
		logger:    logger,
		retention: opts.Retention,
		now:       time.Now,
	}
}

// Analyze extracts metadata for url and builds its catalog
func (o *Orchestrator) Analyze(ctx context.Context, url string) (*model.Analysis, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, apperr.Invalid("No URL provided")
	}

	info, err := o.fetcher.Analyze(ctx, url)
	if err != nil {
		o.logger.Error("analyze failed", "url", url, "error", err)
		return nil, apperr.ClassifyExtraction(err)
	}

	formats := catalog.Build(info.Streams)
	o.logger.Info("analyzed", "url", url, "title", info.Title, "streams", len(info.Streams), "offers", len(formats))

	return &model.Analysis{
		Title:     info.Title,
		Duration:  info.Duration,
		Thumbnail: info.Thumbnail,
		Formats:   formats,
	}, nil
}

// Download runs a job synchronously and returns its final artifact
func (o *Orchestrator) Download(ctx context.Context, opts model.DownloadOptions) (*model.JobResult, error) {
	jobID, err := o.prepare(&opts)
	if err != nil {
		return nil, err
	}
	return o.run(ctx, jobID, opts)
}

// StartDownload registers a job and runs it in the background. The returned
// id can be polled immediately. The job outlives ctx's cancellation.
func (o *Orchestrator) StartDownload(ctx context.Context, opts model.DownloadOptions) (string, error) {
	jobID, err := o.prepare(&opts)
	if err != nil {
		return "", err
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		// errors are recorded on the tracker and logged by run
		_, _ = o.run(context.WithoutCancel(ctx), jobID, opts)
	}()
	return jobID, nil
}

// Wait blocks until every background job has finished
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Progress returns the job's progress record or the unknown sentinel
func (o *Orchestrator) Progress(jobID string) model.ProgressRecord {
	return o.tracker.Get(jobID)
}

// History returns the persisted job history
func (o *Orchestrator) History() ([]model.HistoryRecord, error) {
	return o.history.List()
}

// Delete removes a finished file and its history records
func (o *Orchestrator) Delete(filename string) error {
	return o.history.Delete(filename)
}

// ClearHistory deletes every referenced file and empties the history
func (o *Orchestrator) ClearHistory() (int, error) {
	return o.history.Clear()
}

// prepare validates opts and assigns the job id
func (o *Orchestrator) prepare(opts *model.DownloadOptions) (string, error) {
	opts.URL = strings.TrimSpace(opts.URL)
	if opts.URL == "" {
		return "", apperr.Invalid("No URL provided")
	}

	if opts.JobID == "" {
		opts.JobID = NewJobID(o.now())
	} else if err := validateJobID(opts.JobID); err != nil {
		return "", err
	}

	opts.ConvertTo = strings.TrimPrefix(strings.TrimSpace(opts.ConvertTo), ".")
	if opts.ConvertTo != "" {
		if err := platform.ValidateFilename("x." + opts.ConvertTo); err != nil {
			return "", apperr.Invalid("Invalid convert_to format")
		}
	}

	if o.retention > 0 {
		o.tracker.Prune(o.retention)
	}
	// the id is also the output filename prefix, so it must have one owner
	if !o.tracker.Start(opts.JobID) {
		return "", apperr.Invalid("download_id already in use")
	}
	o.logger.Debug("job registered", "job_id", opts.JobID, "tracked", o.tracker.Len())
	return opts.JobID, nil
}

func (o *Orchestrator) run(ctx context.Context, jobID string, opts model.DownloadOptions) (*model.JobResult, error) {
	log := o.logger.With("job_id", jobID)

	result, err := o.execute(ctx, jobID, opts, log)
	if err != nil {
		o.tracker.Fail(jobID)
		if apperr.Is(err, apperr.KindUnsupportedSource) || apperr.Is(err, apperr.KindSourceUnavailable) {
			log.Warn("job rejected by source", "url", opts.URL, "error", err)
		} else {
			log.Error("job failed", "url", opts.URL, "error", err)
		}
		return nil, err
	}

	o.tracker.Complete(jobID)
	log.Info("job complete", "filename", result.Filename, "size", result.SizeLabel)
	return result, nil
}

func (o *Orchestrator) execute(ctx context.Context, jobID string, opts model.DownloadOptions, log hclog.Logger) (*model.JobResult, error) {
	format := download.ResolveFormat(opts.SelectionID, opts.ExtractAudio)
	log.Info("job started", "url", opts.URL, "format", format, "audio", opts.ExtractAudio)

	fetched, err := o.fetcher.Download(ctx, download.Request{
		JobID:        jobID,
		URL:          opts.URL,
		Format:       format,
		ExtractAudio: opts.ExtractAudio,
	}, func(ev progress.Event) {
		o.tracker.Apply(jobID, ev)
	})
	if err != nil {
		return nil, apperr.ClassifyExtraction(err)
	}

	req := model.PipelineRequest{
		SourcePath: fetched.Path,
		TrimStart:  strings.TrimSpace(opts.TrimStart),
		TrimEnd:    strings.TrimSpace(opts.TrimEnd),
		ConvertTo:  opts.ConvertTo,
		Compress:   opts.CompressEnabled(),
		AudioOnly:  opts.ExtractAudio,
	}

	switch {
	case req.WantsTrim() || req.WantsConvert():
		o.tracker.SetPhase(jobID, model.PhasePostProcessing, PostProcessingETALabel)
	case req.WantsCompress():
		o.tracker.SetPhase(jobID, model.PhaseCompressing, CompressingETALabel)
	}

	processed, err := o.processor.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &model.JobResult{
		JobID:     jobID,
		Filename:  filepath.Base(processed.FinalPath),
		Path:      processed.FinalPath,
		SizeLabel: processed.SizeLabel,
		Kind:      processed.Kind,
	}

	rec := model.HistoryRecord{
		URL:       opts.URL,
		Filename:  result.Filename,
		Kind:      result.Kind,
		Format:    opts.SelectionID,
		Timestamp: jobID,
		SizeLabel: result.SizeLabel,
	}
	if err := o.history.Append(rec); err != nil {
		log.Warn("failed to record history", "error", err)
	}

	return result, nil
}

// NewJobID returns "YYYYMMDD_HHMMSS-xxxxxxxx" where the suffix is taken from
// the random tail of a UUIDv7
func NewJobID(now time.Time) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	hex := strings.ReplaceAll(id.String(), "-", "")
	return now.Format(JobTimestampLayout) + "-" + hex[len(hex)-jobSuffixLen:]
}

// validateJobID accepts caller ids that are safe as a filename prefix
func validateJobID(id string) error {
	if err := platform.ValidateFilename(id); err != nil {
		return apperr.Invalid("Invalid download_id")
	}
	if platform.SanitizeFilename(id) != id || strings.ContainsAny(id, " \t") {
		return apperr.Invalid("Invalid download_id")
	}
	if len(id) > 64 {
		return apperr.Invalid("download_id is too long")
	}
	return nil
}
