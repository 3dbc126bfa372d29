package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeTranscription()
	c.normalizeResolver()
	c.normalizeDownload()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeTools() {
	if strings.TrimSpace(c.Tools.YtdlpBinary) == "" {
		c.Tools.YtdlpBinary = defaultYtdlpBinary
	}
	if strings.TrimSpace(c.Tools.FFprobeBinary) == "" {
		c.Tools.FFprobeBinary = defaultFFprobeBinary
	}
	if strings.TrimSpace(c.Tools.FFmpegBinary) == "" {
		c.Tools.FFmpegBinary = defaultFFmpegBinary
	}
	if strings.TrimSpace(c.Tools.WhisperBinary) == "" {
		c.Tools.WhisperBinary = defaultWhisperBinary
	}
}

func (c *Config) normalizeTranscription() {
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultModel
	}
	if c.Transcription.BeamSize <= 0 {
		c.Transcription.BeamSize = defaultBeamSize
	}
	if c.Transcription.Threads < 0 {
		c.Transcription.Threads = 0
	}
}

func (c *Config) normalizeResolver() {
	if c.Resolver.HTTPTimeoutSeconds <= 0 {
		c.Resolver.HTTPTimeoutSeconds = defaultHTTPTimeoutSeconds
	}
	c.Resolver.UserAgent = strings.TrimSpace(c.Resolver.UserAgent)
	if c.Resolver.UserAgent == "" {
		c.Resolver.UserAgent = defaultUserAgent
	}
}

func (c *Config) normalizeDownload() {
	c.Download.Mode = strings.ToLower(strings.TrimSpace(c.Download.Mode))
	if c.Download.Mode == "" {
		c.Download.Mode = defaultDownloadMode
	}
	c.Download.AudioFormat = strings.ToLower(strings.TrimSpace(c.Download.AudioFormat))
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
