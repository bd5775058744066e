package catalog

import (
	"fmt"
	"sort"

	"github.com/ytget/clipshr/internal/model"
	"github.com/ytget/clipshr/internal/platform"
)

// Labels and defaults used when building offers
const (
	DefaultFPS        = 30.0
	AudioOnlyLabel    = "Audio Only"
	AudioOnlyExt      = "mp3"
	FallbackID        = "best"
	FallbackExt       = "mp4"
	FallbackLabel     = "Best Available"
	UnknownCodecLabel = "Unknown"
	MaxCodecLabelLen  = 20
)

type dedupKey struct {
	height int
	fps    float64
}

// Build returns the ordered offers for the given streams: one video+audio
// pairing per distinct (height, fps), tallest first, then one audio-only offer.
// When nothing usable is found a single "best available" offer is returned.
func Build(streams []model.StreamDescriptor) []model.CatalogEntry {
	var videos []model.StreamDescriptor
	var audios []model.StreamDescriptor
	for _, s := range streams {
		switch {
		case s.Kind == model.MediaKindVideo && s.Height != nil:
			videos = append(videos, s)
		case s.Kind == model.MediaKindAudio:
			audios = append(audios, s)
		}
	}

	bestAudio, hasAudio := selectBestAudio(audios)

	sort.SliceStable(videos, func(i, j int) bool {
		return *videos[i].Height > *videos[j].Height
	})

	entries := make([]model.CatalogEntry, 0, len(videos)+1)
	seen := make(map[dedupKey]struct{}, len(videos))
	for _, v := range videos {
		fps := DefaultFPS
		if v.FPS != nil {
			fps = *v.FPS
		}
		key := dedupKey{height: *v.Height, fps: fps}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		selection := v.ID
		if hasAudio {
			selection = v.ID + "+" + bestAudio.ID
		}

		ext := v.Ext
		if ext == "" {
			ext = FallbackExt
		}

		entries = append(entries, model.CatalogEntry{
			SelectionID: selection,
			Kind:        model.MediaKindVideo,
			Ext:         ext,
			Resolution:  fmt.Sprintf("%dp", *v.Height),
			FPS:         floatPtr(fps),
			Codec:       CodecLabel(v.Codec),
			SizeLabel:   platform.FormatOptionalSize(v.SizeBytes),
			SizeBytes:   v.SizeBytes,
		})
	}

	if hasAudio {
		entries = append(entries, model.CatalogEntry{
			SelectionID: bestAudio.ID,
			Kind:        model.MediaKindAudio,
			Ext:         AudioOnlyExt,
			Resolution:  AudioOnlyLabel,
			Codec:       truncate(bestAudio.Codec, MaxCodecLabelLen),
			SizeLabel:   platform.FormatOptionalSize(bestAudio.SizeBytes),
			SizeBytes:   bestAudio.SizeBytes,
		})
	}

	if len(entries) == 0 {
		entries = append(entries, Fallback())
	}
	return entries
}

// Fallback is the single offer returned when no usable streams were reported
func Fallback() model.CatalogEntry {
	return model.CatalogEntry{
		SelectionID: FallbackID,
		Kind:        model.MediaKindVideo,
		Ext:         FallbackExt,
		Resolution:  FallbackLabel,
		Codec:       UnknownCodecLabel,
		SizeLabel:   platform.UnknownSize,
	}
}

// selectBestAudio picks the highest bitrate audio stream; missing bitrate
// counts as zero and the earliest stream wins ties
func selectBestAudio(audios []model.StreamDescriptor) (model.StreamDescriptor, bool) {
	if len(audios) == 0 {
		return model.StreamDescriptor{}, false
	}
	best := audios[0]
	for _, a := range audios[1:] {
		if bitrate(a) > bitrate(best) {
			best = a
		}
	}
	return best, true
}

func bitrate(s model.StreamDescriptor) float64 {
	if s.AudioBitrate == nil {
		return 0
	}
	return *s.AudioBitrate
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func floatPtr(v float64) *float64 {
	return &v
}
