package catalog

import "strings"

// CodecFamily is a normalized video codec bucket
type CodecFamily string

const (
	CodecVP9   CodecFamily = "VP9"
	CodecAV1   CodecFamily = "AV1"
	CodecH264  CodecFamily = "H.264"
	CodecOther CodecFamily = "other"
)

// codecPatterns is checked in order; the first matching substring wins
var codecPatterns = []struct {
	substr string
	family CodecFamily
}{
	{"vp09", CodecVP9},
	{"vp9", CodecVP9},
	{"av01", CodecAV1},
	{"avc", CodecH264},
}

// ClassifyCodec maps a raw codec tag (e.g. "avc1.640028") to its family
func ClassifyCodec(tag string) CodecFamily {
	lower := strings.ToLower(tag)
	for _, p := range codecPatterns {
		if strings.Contains(lower, p.substr) {
			return p.family
		}
	}
	return CodecOther
}

// CodecLabel returns the display name for a codec tag. Unrecognized tags are
// shown as H.264, which is what the extractor merges into for mp4 output.
func CodecLabel(tag string) string {
	family := ClassifyCodec(tag)
	if family == CodecOther {
		return string(CodecH264)
	}
	return string(family)
}
