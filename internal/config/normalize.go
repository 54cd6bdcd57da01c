package config

import (
	"fmt"
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePipeline()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.CaptionFile, err = expandPath(c.Paths.CaptionFile); err != nil {
		return fmt.Errorf("paths.caption_file: %w", err)
	}
	if c.Paths.SplitFile, err = expandPath(c.Paths.SplitFile); err != nil {
		return fmt.Errorf("paths.split_file: %w", err)
	}
	if c.Paths.EntityAnnotFile, err = expandPath(c.Paths.EntityAnnotFile); err != nil {
		return fmt.Errorf("paths.entity_annot_file: %w", err)
	}
	if c.Paths.SRLFile, err = expandPath(c.Paths.SRLFile); err != nil {
		return fmt.Errorf("paths.srl_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePipeline() {
	c.Pipeline.NoneWord = strings.TrimSpace(c.Pipeline.NoneWord)
	if c.Pipeline.NoneWord == "" {
		c.Pipeline.NoneWord = defaultNoneWord
	}

	excluded := make([]string, 0, len(c.Pipeline.ExcludeVerbSet))
	for _, lemma := range c.Pipeline.ExcludeVerbSet {
		lemma = strings.ToLower(strings.TrimSpace(lemma))
		if lemma != "" {
			excluded = append(excluded, lemma)
		}
	}
	c.Pipeline.ExcludeVerbSet = excluded

	roles := make([]string, 0, len(c.Pipeline.IncludeSRLArgs))
	for _, role := range c.Pipeline.IncludeSRLArgs {
		role = strings.ToUpper(strings.TrimSpace(role))
		if role != "" {
			roles = append(roles, role)
		}
	}
	if len(roles) == 0 {
		roles = defaultIncludeSRLArgs()
	}
	c.Pipeline.IncludeSRLArgs = roles

	if c.Pipeline.NGTProp <= 0 {
		c.Pipeline.NGTProp = defaultNGTProp
	}
	if c.Pipeline.NumFrms <= 0 {
		c.Pipeline.NumFrms = defaultNumFrms
	}
	if c.Pipeline.ResizedWidth <= 0 {
		c.Pipeline.ResizedWidth = defaultResizedWidth
	}
	if c.Pipeline.ResizedHeight <= 0 {
		c.Pipeline.ResizedHeight = defaultResizedHeight
	}
	if c.Pipeline.TemporalSkipRatio <= 0 {
		c.Pipeline.TemporalSkipRatio = defaultTemporalSkipRatio
	}
	if c.Pipeline.Workers <= 0 {
		c.Pipeline.Workers = runtime.NumCPU()
	}
	if c.Pipeline.Workers > maxWorkers {
		c.Pipeline.Workers = maxWorkers
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
