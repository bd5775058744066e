package encoder

import (
	"context"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/ytget/clipshr/internal/apperr"
)

// FFmpeg constants for compression settings
const (
	// Video codec settings
	VideoCodec  = "libx264"
	VideoPreset = "medium"
	VideoCRF    = 23

	// Audio codec settings
	AudioCodec   = "aac"
	AudioBitrate = "192k"

	// Container flags
	FastStartFlag = "+faststart"

	// Output suffixes
	TrimmedSuffix    = "_trimmed"
	CompressedSuffix = "_compressed"
	ConvertedSuffix  = "_converted"

	// Executable and I/O constants
	FFmpegCommand    = "ffmpeg"
	StreamCopyCodec  = "copy"
	AvoidNegativeTS  = "1"
	LogLevel         = "error"
	MaxDiagnosticLen = 4096
)

// Stage names a pipeline step
type Stage string

const (
	StageTrim     Stage = "trim"
	StageConvert  Stage = "convert"
	StageCompress Stage = "compress"
)

// Request is one encoder invocation. With StreamCopy set, the codec fields
// are ignored and streams are remuxed as-is.
type Request struct {
	Stage        Stage
	Input        string
	Output       string
	Start        string
	End          string
	StreamCopy   bool
	VideoCodec   string
	AudioCodec   string
	Preset       string
	CRF          int
	AudioBitrate string
	FastStart    bool
}

// CompressSettings are the quality parameters of the compress stage
type CompressSettings struct {
	CRF          int
	Preset       string
	AudioBitrate string
}

// DefaultCompressSettings returns H.264 CRF 23, medium preset, 192k AAC
func DefaultCompressSettings() CompressSettings {
	return CompressSettings{
		CRF:          VideoCRF,
		Preset:       VideoPreset,
		AudioBitrate: AudioBitrate,
	}
}

// TrimRequest copies the [start, end] range of input without re-encoding.
// Either bound may be empty.
func TrimRequest(input, output, start, end string) Request {
	return Request{
		Stage:      StageTrim,
		Input:      input,
		Output:     output,
		Start:      start,
		End:        end,
		StreamCopy: true,
	}
}

// ConvertRequest transcodes input into the container implied by output's
// extension, letting ffmpeg pick the default codecs for it
func ConvertRequest(input, output string) Request {
	return Request{
		Stage:  StageConvert,
		Input:  input,
		Output: output,
	}
}

// CompressRequest re-encodes input to H.264/AAC with fast start
func CompressRequest(input, output string, settings CompressSettings) Request {
	return Request{
		Stage:        StageCompress,
		Input:        input,
		Output:       output,
		VideoCodec:   VideoCodec,
		AudioCodec:   AudioCodec,
		Preset:       settings.Preset,
		CRF:          settings.CRF,
		AudioBitrate: settings.AudioBitrate,
		FastStart:    true,
	}
}

// DefaultCommandRunner implements CommandRunner using os/exec
type DefaultCommandRunner struct{}

// Run executes a command using os/exec
func (r *DefaultCommandRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}

// FFmpeg runs requests through the ffmpeg binary
type FFmpeg struct {
	path   string
	runner CommandRunner
	logger hclog.Logger
}

// NewFFmpeg creates an encoder for the ffmpeg binary at path
func NewFFmpeg(path string, logger hclog.Logger) *FFmpeg {
	return NewFFmpegWithRunner(path, &DefaultCommandRunner{}, logger)
}

// NewFFmpegWithRunner creates an encoder with a custom command runner (for testing)
func NewFFmpegWithRunner(path string, runner CommandRunner, logger hclog.Logger) *FFmpeg {
	if path == "" {
		path = FFmpegCommand
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &FFmpeg{
		path:   path,
		runner: runner,
		logger: logger,
	}
}

// Encode runs req and blocks until ffmpeg exits. A non-zero exit is returned
// as an encoder failure carrying ffmpeg's output.
func (f *FFmpeg) Encode(ctx context.Context, req Request) error {
	args := BuildFFmpegArgs(req)
	f.logger.Debug("executing ffmpeg", "stage", req.Stage, "args", strings.Join(args, " "))

	started := time.Now()
	output, err := f.runner.Run(ctx, f.path, args...)
	if err != nil {
		diag := tail(string(output), MaxDiagnosticLen)
		f.logger.Error("ffmpeg failed", "stage", req.Stage, "input", req.Input, "error", err)
		return apperr.Encoder(string(req.Stage), diag, err)
	}

	f.logger.Debug("ffmpeg finished", "stage", req.Stage, "elapsed", time.Since(started).Round(time.Millisecond))
	return nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func BuildFFmpegArgs(req Request) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", LogLevel,
		"-i", req.Input,
	}

	if req.Start != "" {
		args = append(args, "-ss", req.Start)
	}
	if req.End != "" {
		args = append(args, "-to", req.End)
	}

	if req.StreamCopy {
		args = append(args,
			"-c", StreamCopyCodec,
			"-avoid_negative_ts", AvoidNegativeTS,
		)
		return append(args, req.Output)
	}

	if req.VideoCodec != "" {
		args = append(args, "-c:v", req.VideoCodec)
	}
	if req.Preset != "" {
		args = append(args, "-preset", req.Preset)
	}
	if req.CRF > 0 {
		args = append(args, "-crf", strconv.Itoa(req.CRF))
	}
	if req.AudioCodec != "" {
		args = append(args, "-c:a", req.AudioCodec)
	}
	if req.AudioBitrate != "" {
		args = append(args, "-b:a", req.AudioBitrate)
	}
	if req.FastStart {
		args = append(args, "-movflags", FastStartFlag)
	}

	return append(args, req.Output)
}

// SuffixedPath inserts suffix between the base name and the extension
func SuffixedPath(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// ConvertedPath returns the output path for converting path into ext. When
// the target equals the input, a suffix keeps them apart.
func ConvertedPath(path, ext string) string {
	ext = "." + strings.TrimPrefix(ext, ".")
	base := strings.TrimSuffix(path, filepath.Ext(path))
	out := base + ext
	if out == path {
		out = base + ConvertedSuffix + ext
	}
	return out
}

// tail keeps the last n bytes of s, where ffmpeg prints the actual error
func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
