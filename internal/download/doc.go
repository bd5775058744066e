package download

// Package download is the fetch collaborator built on top of yt-dlp
// (via github.com/lrstanley/go-ytdlp). It extracts stream metadata for the
// catalog and downloads a chosen format into the media directory, forwarding
// transfer progress as progress.Event values.
