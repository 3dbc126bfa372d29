package config

const (
	defaultCacheDir           = "~/.cache/xscribe"
	defaultYtdlpBinary        = "yt-dlp"
	defaultFFprobeBinary      = "ffprobe"
	defaultFFmpegBinary       = "ffmpeg"
	defaultWhisperBinary      = "whisper-cli"
	defaultModel              = "base"
	defaultBeamSize           = 5
	defaultHTTPTimeoutSeconds = 15
	defaultUserAgent          = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	defaultDownloadMode       = "audio"
	defaultLogLevel           = "info"
	defaultLogFormat          = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir,
		},
		Tools: Tools{
			YtdlpBinary:   defaultYtdlpBinary,
			FFprobeBinary: defaultFFprobeBinary,
			FFmpegBinary:  defaultFFmpegBinary,
			WhisperBinary: defaultWhisperBinary,
		},
		Transcription: Transcription{
			Model:    defaultModel,
			BeamSize: defaultBeamSize,
		},
		Resolver: Resolver{
			HTTPTimeoutSeconds: defaultHTTPTimeoutSeconds,
			UserAgent:          defaultUserAgent,
		},
		Download: Download{
			Mode: defaultDownloadMode,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
