package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/clipshr/internal/apperr"
	"github.com/ytget/clipshr/internal/encoder"
	"github.com/ytget/clipshr/internal/model"
)

type failureMode int

const (
	succeed failureMode = iota
	fail
	failWithPartial
)

// fakeEncoder writes a placeholder output for every request
type fakeEncoder struct {
	modes    map[encoder.Stage]failureMode
	requests []encoder.Request
}

func (f *fakeEncoder) Encode(_ context.Context, req encoder.Request) error {
	f.requests = append(f.requests, req)

	switch f.modes[req.Stage] {
	case fail:
		return apperr.Encoder(string(req.Stage), "boom", errors.New("exit status 1"))
	case failWithPartial:
		_ = os.WriteFile(req.Output, []byte("partial"), 0644)
		return apperr.Encoder(string(req.Stage), "boom", errors.New("exit status 1"))
	}

	content := "encoded output"
	if req.Stage == encoder.StageCompress {
		content = "small"
	}
	return os.WriteFile(req.Output, []byte(content), 0644)
}

func (f *fakeEncoder) stages() []encoder.Stage {
	var stages []encoder.Stage
	for _, req := range f.requests {
		stages = append(stages, req.Stage)
	}
	return stages
}

func writeSource(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("original media contents"), 0644))
	return path
}

func dirFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names
}

func TestRun_StageCombinations(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		req       model.PipelineRequest
		wantFinal string
		wantKind  model.MediaKind
		wantCalls []encoder.Stage
	}{
		{
			name:      "nothing requested",
			source:    "job_clip.mp4",
			req:       model.PipelineRequest{},
			wantFinal: "job_clip.mp4",
			wantKind:  model.MediaKindVideo,
		},
		{
			name:      "trim only",
			source:    "job_clip.mp4",
			req:       model.PipelineRequest{TrimStart: "5", TrimEnd: "15"},
			wantFinal: "job_clip_trimmed.mp4",
			wantKind:  model.MediaKindVideo,
			wantCalls: []encoder.Stage{encoder.StageTrim},
		},
		{
			name:      "convert only",
			source:    "job_clip.mp4",
			req:       model.PipelineRequest{ConvertTo: "webm"},
			wantFinal: "job_clip.webm",
			wantKind:  model.MediaKindVideo,
			wantCalls: []encoder.Stage{encoder.StageConvert},
		},
		{
			name:      "convert to same container",
			source:    "job_clip.mp4",
			req:       model.PipelineRequest{ConvertTo: "mp4"},
			wantFinal: "job_clip_converted.mp4",
			wantKind:  model.MediaKindVideo,
			wantCalls: []encoder.Stage{encoder.StageConvert},
		},
		{
			name:      "compress only",
			source:    "job_clip.mp4",
			req:       model.PipelineRequest{Compress: true},
			wantFinal: "job_clip_compressed.mp4",
			wantKind:  model.MediaKindVideo,
			wantCalls: []encoder.Stage{encoder.StageCompress},
		},
		{
			name:      "trim and compress",
			source:    "job_clip.mp4",
			req:       model.PipelineRequest{TrimStart: "5", TrimEnd: "15", Compress: true},
			wantFinal: "job_clip_trimmed_compressed.mp4",
			wantKind:  model.MediaKindVideo,
			wantCalls: []encoder.Stage{encoder.StageTrim, encoder.StageCompress},
		},
		{
			name:      "trim and convert",
			source:    "job_clip.mp4",
			req:       model.PipelineRequest{TrimEnd: "30", ConvertTo: "mkv"},
			wantFinal: "job_clip_trimmed.mkv",
			wantKind:  model.MediaKindVideo,
			wantCalls: []encoder.Stage{encoder.StageTrim, encoder.StageConvert},
		},
		{
			name:      "convert wins over compress",
			source:    "job_clip.mp4",
			req:       model.PipelineRequest{ConvertTo: "webm", Compress: true},
			wantFinal: "job_clip.webm",
			wantKind:  model.MediaKindVideo,
			wantCalls: []encoder.Stage{encoder.StageConvert},
		},
		{
			name:      "all stages",
			source:    "job_clip.mp4",
			req:       model.PipelineRequest{TrimStart: "1", ConvertTo: "mov", Compress: true},
			wantFinal: "job_clip_trimmed.mov",
			wantKind:  model.MediaKindVideo,
			wantCalls: []encoder.Stage{encoder.StageTrim, encoder.StageConvert},
		},
		{
			name:      "audio is never compressed",
			source:    "job_song.mp3",
			req:       model.PipelineRequest{Compress: true, AudioOnly: true},
			wantFinal: "job_song.mp3",
			wantKind:  model.MediaKindAudio,
		},
		{
			name:      "audio trim",
			source:    "job_song.mp3",
			req:       model.PipelineRequest{TrimStart: "00:00:10", Compress: true, AudioOnly: true},
			wantFinal: "job_song_trimmed.mp3",
			wantKind:  model.MediaKindAudio,
			wantCalls: []encoder.Stage{encoder.StageTrim},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := writeSource(t, tt.source)
			dir := filepath.Dir(source)
			enc := &fakeEncoder{}
			p := New(enc, encoder.DefaultCompressSettings(), nil)

			req := tt.req
			req.SourcePath = source
			result, err := p.Run(context.Background(), req)
			require.NoError(t, err)

			assert.Equal(t, filepath.Join(dir, tt.wantFinal), result.FinalPath)
			assert.Equal(t, tt.wantKind, result.Kind)
			assert.Equal(t, tt.wantCalls, enc.stages())
			assert.Equal(t, []string{tt.wantFinal}, dirFiles(t, dir), "exactly one artifact must survive")
			assert.NotEqual(t, "Unknown", result.SizeLabel)
		})
	}
}

func TestRun_FatalStageFailures(t *testing.T) {
	tests := []struct {
		name      string
		req       model.PipelineRequest
		modes     map[encoder.Stage]failureMode
		wantStage string
		survivor  string
	}{
		{
			name:      "trim fails",
			req:       model.PipelineRequest{TrimStart: "5", Compress: true},
			modes:     map[encoder.Stage]failureMode{encoder.StageTrim: fail},
			wantStage: "trim",
			survivor:  "job_clip.mp4",
		},
		{
			name:      "trim fails leaving partial output",
			req:       model.PipelineRequest{TrimStart: "5"},
			modes:     map[encoder.Stage]failureMode{encoder.StageTrim: failWithPartial},
			wantStage: "trim",
			survivor:  "job_clip.mp4",
		},
		{
			name:      "convert fails",
			req:       model.PipelineRequest{ConvertTo: "webm"},
			modes:     map[encoder.Stage]failureMode{encoder.StageConvert: failWithPartial},
			wantStage: "convert",
			survivor:  "job_clip.mp4",
		},
		{
			name:      "convert fails after trim",
			req:       model.PipelineRequest{TrimStart: "5", ConvertTo: "webm"},
			modes:     map[encoder.Stage]failureMode{encoder.StageConvert: failWithPartial},
			wantStage: "convert",
			survivor:  "job_clip_trimmed.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := writeSource(t, "job_clip.mp4")
			dir := filepath.Dir(source)
			p := New(&fakeEncoder{modes: tt.modes}, encoder.DefaultCompressSettings(), nil)

			req := tt.req
			req.SourcePath = source
			result, err := p.Run(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, result)

			var appErr *apperr.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperr.KindEncoderFailed, appErr.Kind)
			assert.Equal(t, tt.wantStage, appErr.Stage)
			assert.True(t, strings.HasPrefix(appErr.UserMessage(), "FFmpeg error:"))

			assert.Equal(t, []string{tt.survivor}, dirFiles(t, dir))
		})
	}
}

func TestRun_CompressFailureKeepsUncompressedFile(t *testing.T) {
	for _, mode := range []failureMode{fail, failWithPartial} {
		source := writeSource(t, "job_clip.mp4")
		dir := filepath.Dir(source)
		p := New(&fakeEncoder{modes: map[encoder.Stage]failureMode{encoder.StageCompress: mode}}, encoder.DefaultCompressSettings(), nil)

		result, err := p.Run(context.Background(), model.PipelineRequest{
			SourcePath: source,
			TrimStart:  "5",
			TrimEnd:    "15",
			Compress:   true,
		})
		require.NoError(t, err)

		trimmed := filepath.Join(dir, "job_clip_trimmed.mp4")
		assert.Equal(t, trimmed, result.FinalPath)
		assert.Equal(t, []string{"job_clip_trimmed.mp4"}, dirFiles(t, dir))
	}
}

func TestRun_MissingSource(t *testing.T) {
	p := New(&fakeEncoder{}, encoder.DefaultCompressSettings(), nil)

	_, err := p.Run(context.Background(), model.PipelineRequest{SourcePath: filepath.Join(t.TempDir(), "gone.mp4")})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindFileSystemFailed))
}

func TestRun_PassesCompressSettings(t *testing.T) {
	source := writeSource(t, "job_clip.mp4")
	enc := &fakeEncoder{}
	settings := encoder.CompressSettings{CRF: 28, Preset: "fast", AudioBitrate: "128k"}
	p := New(enc, settings, nil)

	_, err := p.Run(context.Background(), model.PipelineRequest{SourcePath: source, Compress: true})
	require.NoError(t, err)
	require.Len(t, enc.requests, 1)

	req := enc.requests[0]
	assert.Equal(t, 28, req.CRF)
	assert.Equal(t, "fast", req.Preset)
	assert.Equal(t, "128k", req.AudioBitrate)
	assert.Equal(t, encoder.VideoCodec, req.VideoCodec)
	assert.True(t, req.FastStart)
}

func TestReductionPercent(t *testing.T) {
	assert.Equal(t, "50.0%", reductionPercent(200, 100))
	assert.Equal(t, "n/a", reductionPercent(0, 100))
}
