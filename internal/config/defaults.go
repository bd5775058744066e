package config

const (
	defaultBind             = "127.0.0.1"
	defaultPort             = 5000
	defaultMediaDir         = "media"
	defaultHistoryFile      = "db.json"
	defaultSocketTimeout    = 30
	defaultRetries          = 3
	defaultMergeFormat      = "mp4"
	defaultAudioFormat      = "mp3"
	defaultAudioQuality     = "192"
	defaultFFmpegPath       = "ffmpeg"
	defaultCRF              = 23
	defaultPreset           = "medium"
	defaultAudioBitrate     = "192k"
	defaultRetentionMinutes = 60
	defaultLogLevel         = "info"
	defaultLogFormat        = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			Bind: defaultBind,
			Port: defaultPort,
		},
		Paths: Paths{
			MediaDir:    defaultMediaDir,
			HistoryFile: defaultHistoryFile,
		},
		Fetch: Fetch{
			SocketTimeout: defaultSocketTimeout,
			Retries:       defaultRetries,
			MergeFormat:   defaultMergeFormat,
			AudioFormat:   defaultAudioFormat,
			AudioQuality:  defaultAudioQuality,
		},
		Encoder: Encoder{
			FFmpegPath:   defaultFFmpegPath,
			CRF:          defaultCRF,
			Preset:       defaultPreset,
			AudioBitrate: defaultAudioBitrate,
		},
		Progress: Progress{
			RetentionMinutes: defaultRetentionMinutes,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
