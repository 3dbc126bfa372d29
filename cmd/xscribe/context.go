package main

import (
	"log/slog"
	"strings"
	"sync"

	"xscribe/internal/config"
	"xscribe/internal/logging"
)

// commandContext lazily loads configuration and the logger once per
// invocation so every subcommand shares the same instances.
type commandContext struct {
	configFlag *string

	once      sync.Once
	config    *config.Config
	logger    *slog.Logger
	initError error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensure() (*config.Config, *slog.Logger, error) {
	c.once.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.initError = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			c.initError = err
			return
		}
		c.config = cfg
		c.logger = logger
	})
	return c.config, c.logger, c.initError
}
