package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Filename limits
const (
	MaxFileNameLength = 200
)

// File extensions yt-dlp leaves behind while a transfer is in flight
var (
	SkippedExtensions = []string{".part", ".ytdl", ".temp", ".tmp"}
)

var (
	invalidFileNameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	repeatedWhitespace   = regexp.MustCompile(`\s+`)
)

// ErrInvalidFilename is returned for names that could escape the media directory
var ErrInvalidFilename = errors.New("invalid filename")

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// FileExists reports whether path exists and is a regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// FileSize returns the size of the file in bytes
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// FileSizeLabel returns the human readable size of a file, or "Unknown" when it
// cannot be read
func FileSizeLabel(path string) string {
	size, err := FileSize(path)
	if err != nil {
		return UnknownSize
	}
	return FormatSize(size)
}

// RemoveIfExists deletes path, treating a missing file as success
func RemoveIfExists(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ValidateFilename rejects names containing path separators or parent-directory
// segments so they always resolve inside the media directory
func ValidateFilename(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidFilename)
	}
	if strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %s", ErrInvalidFilename, name)
	}
	return nil
}

// SanitizeFilename removes characters that are invalid on common filesystems,
// collapses whitespace and limits the length
func SanitizeFilename(name string) string {
	name = invalidFileNameChars.ReplaceAllString(name, "")
	name = repeatedWhitespace.ReplaceAllString(name, " ")
	if len(name) > MaxFileNameLength {
		name = name[:MaxFileNameLength]
	}
	return name
}

// FindFileByPrefix returns the finished file in dir whose name starts with
// prefix. In-flight artifacts (see SkippedExtensions) are ignored. When several
// files match, preferExt wins, then the most recently modified one.
func FindFileByPrefix(dir, prefix, preferExt string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("file prefix is empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var candidates []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || isInFlightFile(name) {
			continue
		}
		candidates = append(candidates, filepath.Join(dir, name))
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("file not found with prefix %s in %s", prefix, dir)
	}

	if preferExt != "" {
		want := "." + strings.TrimPrefix(preferExt, ".")
		for _, c := range candidates {
			if strings.EqualFold(filepath.Ext(c), want) {
				return c, nil
			}
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		infoI, _ := os.Stat(candidates[i])
		infoJ, _ := os.Stat(candidates[j])
		if infoI == nil || infoJ == nil {
			return false
		}
		return infoI.ModTime().After(infoJ.ModTime())
	})
	return candidates[0], nil
}

// isInFlightFile checks if a filename is a temporary download artifact
func isInFlightFile(filename string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	// yt-dlp names per-stream parts like "name.f137.mp4" before merging
	parts := strings.Split(filename, ".")
	if len(parts) >= 3 {
		fmtPart := parts[len(parts)-2]
		if len(fmtPart) > 1 && fmtPart[0] == 'f' && isDigits(fmtPart[1:]) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// LookupBinary resolves an executable name or path. An explicit path is
// checked on disk, a bare name is searched in PATH.
func LookupBinary(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("binary name is empty")
	}
	if strings.ContainsAny(name, `/\`) {
		info, err := os.Stat(name)
		if err != nil {
			return "", fmt.Errorf("binary %q not found: %w", name, err)
		}
		if info.IsDir() {
			return "", fmt.Errorf("binary %q is a directory", name)
		}
		return name, nil
	}
	resolved, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("binary %q not found in PATH", name)
	}
	return resolved, nil
}
