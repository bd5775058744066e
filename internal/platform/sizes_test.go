package platform

import "testing"

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0.00 B"},
		{512, "512.00 B"},
		{1023, "1023.00 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{10 * 1024 * 1024, "10.00 MB"},
		{1_073_741_824, "1.00 GB"},
		{1024 * 1024 * 1024 * 1024, "1.00 TB"},
		{3 * 1024 * 1024 * 1024 * 1024 * 1024, "3072.00 TB"},
	}

	for _, test := range tests {
		result := FormatSize(test.bytes)
		if result != test.expected {
			t.Errorf("FormatSize(%d) = %s, expected %s", test.bytes, result, test.expected)
		}
	}
}

func TestFormatOptionalSize(t *testing.T) {
	if got := FormatOptionalSize(nil); got != UnknownSize {
		t.Errorf("FormatOptionalSize(nil) = %s, expected %s", got, UnknownSize)
	}

	size := int64(2048)
	if got := FormatOptionalSize(&size); got != "2.00 KB" {
		t.Errorf("FormatOptionalSize(2048) = %s, expected 2.00 KB", got)
	}
}
