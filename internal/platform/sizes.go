package platform

import "fmt"

// UnknownSize is reported when a size is absent or unreadable
const UnknownSize = "Unknown"

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatSize converts a byte count to the largest unit in B..TB whose scaled
// value stays below 1024, with two decimals
func FormatSize(bytes int64) string {
	size := float64(bytes)
	for _, unit := range sizeUnits {
		if size < 1024.0 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024.0
	}
	return fmt.Sprintf("%.2f TB", size)
}

// FormatOptionalSize formats an optional byte count, "Unknown" when nil
func FormatOptionalSize(bytes *int64) string {
	if bytes == nil {
		return UnknownSize
	}
	return FormatSize(*bytes)
}
