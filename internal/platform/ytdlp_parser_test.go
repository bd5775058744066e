package platform

import (
	"testing"

	"github.com/ytget/clipshr/internal/model"
)

const sampleYTDLPOutput = `{
  "id": "abc123",
  "title": "Sample Clip",
  "duration": 30.5,
  "thumbnail": "https://img.example.com/abc123.jpg",
  "formats": [
    {"format_id": "sb0", "ext": "mhtml", "vcodec": "none", "acodec": "none"},
    {"format_id": "140", "ext": "m4a", "vcodec": "none", "acodec": "mp4a.40.2", "abr": 129.5, "filesize": 485000},
    {"format_id": "251", "ext": "webm", "vcodec": "none", "acodec": "opus", "abr": 140.1, "filesize_approx": 512000.7},
    {"format_id": "137", "ext": "mp4", "vcodec": "avc1.640028", "acodec": "none", "height": 1080, "fps": 30, "filesize": 10485760},
    {"format_id": "248", "ext": "webm", "vcodec": "vp9", "acodec": "none", "height": 1080, "fps": 30},
    {"format_id": "18", "ext": "mp4", "acodec": "mp4a.40.2", "height": 360}
  ]
}`

func TestParseMediaInfo(t *testing.T) {
	info, err := ParseMediaInfo([]byte(sampleYTDLPOutput))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if info.Title != "Sample Clip" {
		t.Errorf("Expected title 'Sample Clip', got %q", info.Title)
	}
	if info.Duration != 30.5 {
		t.Errorf("Expected duration 30.5, got %v", info.Duration)
	}
	if info.Thumbnail != "https://img.example.com/abc123.jpg" {
		t.Errorf("Unexpected thumbnail %q", info.Thumbnail)
	}

	// storyboard is skipped
	if len(info.Streams) != 5 {
		t.Fatalf("Expected 5 streams, got %d", len(info.Streams))
	}

	tests := []struct {
		index     int
		id        string
		kind      model.MediaKind
		codec     string
		hasHeight bool
		size      int64
	}{
		{0, "140", model.MediaKindAudio, "mp4a.40.2", false, 485000},
		{1, "251", model.MediaKindAudio, "opus", false, 512000},
		{2, "137", model.MediaKindVideo, "avc1.640028", true, 10485760},
		{3, "248", model.MediaKindVideo, "vp9", true, -1},
		{4, "18", model.MediaKindVideo, "unknown", true, -1},
	}

	for _, tt := range tests {
		s := info.Streams[tt.index]
		if s.ID != tt.id {
			t.Errorf("Stream %d: expected id %s, got %s", tt.index, tt.id, s.ID)
		}
		if s.Kind != tt.kind {
			t.Errorf("Stream %s: expected kind %s, got %s", tt.id, tt.kind, s.Kind)
		}
		if s.Codec != tt.codec {
			t.Errorf("Stream %s: expected codec %s, got %s", tt.id, tt.codec, s.Codec)
		}
		if (s.Height != nil) != tt.hasHeight {
			t.Errorf("Stream %s: expected height present = %v", tt.id, tt.hasHeight)
		}
		if tt.size < 0 {
			if s.SizeBytes != nil {
				t.Errorf("Stream %s: expected no size, got %d", tt.id, *s.SizeBytes)
			}
		} else if s.SizeBytes == nil || *s.SizeBytes != tt.size {
			t.Errorf("Stream %s: expected size %d, got %v", tt.id, tt.size, s.SizeBytes)
		}
	}
}

func TestParseMediaInfo_InvalidJSON(t *testing.T) {
	_, err := ParseMediaInfo([]byte("not json"))
	if err == nil {
		t.Error("Expected error for invalid JSON, got nil")
	}
}

func TestParseMediaInfo_NoFormats(t *testing.T) {
	info, err := ParseMediaInfo([]byte(`{"title": "Empty"}`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(info.Streams) != 0 {
		t.Errorf("Expected no streams, got %d", len(info.Streams))
	}
}
