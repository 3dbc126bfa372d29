package config

import (
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateDownload(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

var modelSizes = map[string]struct{}{
	"tiny":     {},
	"base":     {},
	"small":    {},
	"medium":   {},
	"large-v3": {},
}

func (c *Config) validateTranscription() error {
	if _, ok := modelSizes[c.Transcription.Model]; !ok {
		return fmt.Errorf("transcription.model must be one of tiny, base, small, medium, large-v3; got %q", c.Transcription.Model)
	}
	return nil
}

func (c *Config) validateDownload() error {
	switch c.Download.Mode {
	case "audio", "video":
		return nil
	default:
		return fmt.Errorf("download.mode must be %q or %q, got %q", "audio", "video", c.Download.Mode)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be %q or %q, got %q", "console", "json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
