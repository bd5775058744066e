package platform

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ytget/clipshr/internal/model"
)

// Codec value yt-dlp uses for an absent video or audio track
const (
	NoCodec = "none"
)

// ytdlpInfo mirrors the fields of yt-dlp --dump-single-json output that we use
type ytdlpInfo struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Duration  float64       `json:"duration"`
	Thumbnail string        `json:"thumbnail"`
	Formats   []ytdlpFormat `json:"formats"`
}

type ytdlpFormat struct {
	FormatID       string   `json:"format_id"`
	Ext            string   `json:"ext"`
	VCodec         *string  `json:"vcodec"`
	ACodec         *string  `json:"acodec"`
	Height         *float64 `json:"height"`
	FPS            *float64 `json:"fps"`
	FileSize       *float64 `json:"filesize"`
	FileSizeApprox *float64 `json:"filesize_approx"`
	ABR            *float64 `json:"abr"`
}

// ParseMediaInfo converts yt-dlp single-JSON output into media metadata and a
// list of stream descriptors. Formats carrying neither video nor audio
// (storyboards) are skipped.
func ParseMediaInfo(data []byte) (*model.MediaInfo, error) {
	var info ytdlpInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to parse yt-dlp output: %w", err)
	}

	streams := make([]model.StreamDescriptor, 0, len(info.Formats))
	for _, f := range info.Formats {
		if stream, ok := f.toDescriptor(); ok {
			streams = append(streams, stream)
		}
	}

	return &model.MediaInfo{
		Title:     info.Title,
		Duration:  info.Duration,
		Thumbnail: info.Thumbnail,
		Streams:   streams,
	}, nil
}

func (f ytdlpFormat) toDescriptor() (model.StreamDescriptor, bool) {
	if f.FormatID == "" {
		return model.StreamDescriptor{}, false
	}

	vcodec := codecValue(f.VCodec)
	acodec := codecValue(f.ACodec)

	d := model.StreamDescriptor{
		ID:           f.FormatID,
		Ext:          f.Ext,
		FPS:          f.FPS,
		AudioBitrate: f.ABR,
		SizeBytes:    firstSize(f.FileSize, f.FileSizeApprox),
	}

	switch {
	case vcodec != NoCodec:
		d.Kind = model.MediaKindVideo
		d.Codec = vcodec
		if f.Height != nil && *f.Height > 0 {
			h := int(*f.Height)
			d.Height = &h
		}
	case acodec != NoCodec:
		d.Kind = model.MediaKindAudio
		d.Codec = acodec
	default:
		return model.StreamDescriptor{}, false
	}

	return d, true
}

// codecValue treats a missing codec as unknown rather than absent, matching
// how yt-dlp omits the key for formats it could not probe
func codecValue(codec *string) string {
	if codec == nil {
		return "unknown"
	}
	value := strings.TrimSpace(*codec)
	if value == "" {
		return "unknown"
	}
	return value
}

func firstSize(values ...*float64) *int64 {
	for _, v := range values {
		if v != nil && *v > 0 {
			size := int64(*v)
			return &size
		}
	}
	return nil
}
