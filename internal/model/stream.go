package model

// MediaKind distinguishes video offers from audio-only offers
type MediaKind string

const (
	MediaKindVideo MediaKind = "video"
	MediaKindAudio MediaKind = "audio"
)

// StreamDescriptor describes one fetchable representation of a remote asset.
// Optional numeric fields are nil when the extractor did not report them.
type StreamDescriptor struct {
	ID           string    `json:"id"`
	Kind         MediaKind `json:"kind"`
	Height       *int      `json:"height,omitempty"`
	FPS          *float64  `json:"fps,omitempty"`
	Codec        string    `json:"codec"`
	Ext          string    `json:"ext"`
	SizeBytes    *int64    `json:"size_bytes,omitempty"` // may be an estimate
	AudioBitrate *float64  `json:"abr,omitempty"`
}

// CatalogEntry is one selectable offer shown to the caller
type CatalogEntry struct {
	SelectionID string    `json:"format_id"`
	Kind        MediaKind `json:"type"`
	Ext         string    `json:"ext"`
	Resolution  string    `json:"resolution"`
	FPS         *float64  `json:"fps,omitempty"`
	Codec       string    `json:"codec"`
	SizeLabel   string    `json:"filesize"`
	SizeBytes   *int64    `json:"filesize_bytes"`
}

// MediaInfo is what the fetch collaborator returns in analyze mode
type MediaInfo struct {
	Title     string             `json:"title"`
	Duration  float64            `json:"duration"`
	Thumbnail string             `json:"thumbnail"`
	Streams   []StreamDescriptor `json:"-"`
}

// Analysis is the analyze response: media metadata plus the ranked catalog
type Analysis struct {
	Title     string         `json:"title"`
	Duration  float64        `json:"duration"`
	Thumbnail string         `json:"thumbnail"`
	Formats   []CatalogEntry `json:"formats"`
}
