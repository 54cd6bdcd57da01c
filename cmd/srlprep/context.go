package main

import (
	"log/slog"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"srlprep/internal/cachestore"
	"srlprep/internal/config"
	"srlprep/internal/logging"
	"srlprep/internal/pipeline"
	"srlprep/internal/report"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cfg *config.Config) *slog.Logger {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// withStore runs fn with an open cache store and guarantees release of the
// cache lock.
func (c *commandContext) withStore(fn func(cfg *config.Config, store *cachestore.Store, logger *slog.Logger) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger := c.logger(cfg)
	store, err := cachestore.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cfg, store, logger)
}

// runStages executes the named pipeline stages under signal cancellation and
// prints the run summary.
func (c *commandContext) runStages(cmd *cobra.Command, stages ...string) error {
	return c.withStore(func(cfg *config.Config, store *cachestore.Store, logger *slog.Logger) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		p := pipeline.New(cfg, store, logger)
		var (
			summary *report.RunSummary
			err     error
		)
		if len(stages) == 0 {
			summary, err = p.Run(ctx)
		} else {
			summary, err = p.RunStages(ctx, stages...)
		}
		if err != nil {
			return err
		}
		report.Render(cmd.OutOrStdout(), *summary)
		return nil
	})
}
