package progress

import (
	"fmt"
	"math"

	"github.com/ytget/clipshr/internal/platform"
)

// Raw statuses emitted by the fetch collaborator
const (
	StatusDownloading = "downloading"
	StatusFinished    = "finished"
)

// Labels used in progress records
const (
	ZeroSpeedLabel     = "0 KB/s"
	CompleteSpeedLabel = "Complete"
	UnknownETALabel    = "Unknown"
	ProcessingETALabel = "Processing..."
	CalculatingLabel   = "calculating..."
	DoneETALabel       = "Done"
	bytesPerMiB        = 1024 * 1024
)

// Event is one raw transfer notification. Zero values mean "not reported".
type Event struct {
	Status             string
	DownloadedBytes    int64
	TotalBytes         int64
	TotalBytesEstimate int64
	SpeedBytesPerSec   float64
	ETASeconds         int
}

// total returns the exact total when known, otherwise the estimate
func (e Event) total() int64 {
	if e.TotalBytes > 0 {
		return e.TotalBytes
	}
	return e.TotalBytesEstimate
}

// Percent returns downloaded/total as a percentage clamped to [0,100] and
// rounded to one decimal
func (e Event) Percent() float64 {
	total := e.total()
	if total <= 0 {
		return 0
	}
	percent := float64(e.DownloadedBytes) / float64(total) * 100
	percent = math.Max(0, math.Min(100, percent))
	return math.Round(percent*10) / 10
}

// FormatSpeed renders a transfer rate, switching to MB/s at 1 MiB/s
func FormatSpeed(bytesPerSec float64) string {
	if bytesPerSec <= 0 {
		return ZeroSpeedLabel
	}
	if bytesPerSec < bytesPerMiB {
		return fmt.Sprintf("%.2f KB/s", bytesPerSec/1024)
	}
	return fmt.Sprintf("%.2f MB/s", bytesPerSec/bytesPerMiB)
}

// FormatETA renders remaining seconds, "Unknown" when absent or zero
func FormatETA(seconds int) string {
	if seconds <= 0 {
		return UnknownETALabel
	}
	return fmt.Sprintf("%ds", seconds)
}

func sizeLabel(bytes int64) string {
	if bytes <= 0 {
		return platform.UnknownSize
	}
	return platform.FormatSize(bytes)
}
