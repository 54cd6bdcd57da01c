package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	required := []struct {
		name  string
		value string
	}{
		{"paths.caption_file", c.Paths.CaptionFile},
		{"paths.split_file", c.Paths.SplitFile},
		{"paths.entity_annot_file", c.Paths.EntityAnnotFile},
		{"paths.srl_file", c.Paths.SRLFile},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s is required", field.name)
		}
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.PropScoreThreshold < 0 || c.Pipeline.PropScoreThreshold > 1 {
		return fmt.Errorf("pipeline.prop_score_threshold must be in [0,1], got %v", c.Pipeline.PropScoreThreshold)
	}
	if c.Pipeline.TemporalSkipRatio > 1 {
		return fmt.Errorf("pipeline.temporal_skip_ratio must be at most 1, got %v", c.Pipeline.TemporalSkipRatio)
	}
	include := c.IncludedRoles()
	for _, lemma := range c.Pipeline.ExcludeVerbSet {
		if strings.ContainsAny(lemma, " \t") {
			return fmt.Errorf("pipeline.exclude_verb_set entry %q must be a single lemma", lemma)
		}
	}
	if _, ok := include["V"]; ok {
		return fmt.Errorf("pipeline.include_srl_args must not contain the verb slot itself")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
