package pipeline

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/ytget/clipshr/internal/apperr"
	"github.com/ytget/clipshr/internal/encoder"
	"github.com/ytget/clipshr/internal/model"
	"github.com/ytget/clipshr/internal/platform"
)

// Pipeline applies trim, convert and compress to a fetched file
type Pipeline struct {
	encoder  encoder.Encoder
	settings encoder.CompressSettings
	logger   hclog.Logger
}

// New creates a pipeline around enc
func New(enc encoder.Encoder, settings encoder.CompressSettings, logger hclog.Logger) *Pipeline {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Pipeline{
		encoder:  enc,
		settings: settings,
		logger:   logger,
	}
}

// Run executes the requested stages in order. Exactly one artifact survives:
// the final file on success, or the last good file when a stage fails.
// Compress failures are absorbed and the pre-compression file is returned.
func (p *Pipeline) Run(ctx context.Context, req model.PipelineRequest) (*model.PipelineResult, error) {
	if !platform.FileExists(req.SourcePath) {
		return nil, apperr.FileSystem("source file not found", fmt.Errorf("%s", req.SourcePath))
	}

	log := p.logger.With("source", req.SourcePath)
	current := req.SourcePath

	if req.IsNoop() {
		log.Debug("no post-processing requested")
		return p.result(current, req), nil
	}

	if req.WantsTrim() {
		out := encoder.SuffixedPath(current, encoder.TrimmedSuffix)
		next, err := p.replace(ctx, encoder.TrimRequest(current, out, req.TrimStart, req.TrimEnd), current)
		if err != nil {
			return nil, err
		}
		log.Info("trimmed", "start", req.TrimStart, "end", req.TrimEnd, "output", next)
		current = next
	}

	if req.WantsConvert() {
		if req.Compress && !req.AudioOnly {
			log.Info("convert requested, skipping compression", "format", req.ConvertTo)
		}
		out := encoder.ConvertedPath(current, req.ConvertTo)
		next, err := p.replace(ctx, encoder.ConvertRequest(current, out), current)
		if err != nil {
			return nil, err
		}
		log.Info("converted", "format", req.ConvertTo, "output", next)
		current = next
	}

	if req.WantsCompress() {
		current = p.compress(ctx, current, log)
	}

	return p.result(current, req), nil
}

// replace runs a fatal stage. On success the superseded input is deleted and
// the new output returned; on failure the partial output is removed and the
// input is left as the sole artifact.
func (p *Pipeline) replace(ctx context.Context, req encoder.Request, input string) (string, error) {
	if err := p.encoder.Encode(ctx, req); err != nil {
		p.discard(req.Output)
		return "", err
	}
	if !platform.FileExists(req.Output) {
		return "", apperr.Encoder(string(req.Stage), "encoder produced no output file", fmt.Errorf("%s", req.Output))
	}
	if err := platform.RemoveIfExists(input); err != nil {
		p.discard(req.Output)
		return "", apperr.FileSystem("failed to remove intermediate file", err)
	}
	return req.Output, nil
}

// compress re-encodes input and returns the path of the surviving file
func (p *Pipeline) compress(ctx context.Context, input string, log hclog.Logger) string {
	out := encoder.SuffixedPath(input, encoder.CompressedSuffix)
	before, _ := platform.FileSize(input)

	if err := p.encoder.Encode(ctx, encoder.CompressRequest(input, out, p.settings)); err != nil {
		log.Warn("compression failed, keeping uncompressed file", "error", err)
		p.discard(out)
		return input
	}

	after, err := platform.FileSize(out)
	if err != nil {
		log.Warn("compressed output missing, keeping uncompressed file", "error", err)
		p.discard(out)
		return input
	}

	if err := platform.RemoveIfExists(input); err != nil {
		log.Warn("failed to remove uncompressed file, keeping it", "error", err)
		p.discard(out)
		return input
	}

	log.Info("compressed",
		"before", platform.FormatSize(before),
		"after", platform.FormatSize(after),
		"reduction", reductionPercent(before, after))
	return out
}

func (p *Pipeline) discard(path string) {
	if err := platform.RemoveIfExists(path); err != nil {
		p.logger.Warn("failed to remove partial output", "path", path, "error", err)
	}
}

func (p *Pipeline) result(path string, req model.PipelineRequest) *model.PipelineResult {
	kind := model.MediaKindVideo
	if req.AudioOnly {
		kind = model.MediaKindAudio
	}
	return &model.PipelineResult{
		FinalPath: path,
		SizeLabel: platform.FileSizeLabel(path),
		Kind:      kind,
	}
}

// reductionPercent formats how much smaller after is than before
func reductionPercent(before, after int64) string {
	if before <= 0 {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", (1-float64(after)/float64(before))*100)
}
