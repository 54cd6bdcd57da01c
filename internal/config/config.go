package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains input annotation files and output directories.
type Paths struct {
	CaptionFile     string `toml:"caption_file"`
	SplitFile       string `toml:"split_file"`
	EntityAnnotFile string `toml:"entity_annot_file"`
	SRLFile         string `toml:"srl_file"`
	CacheDir        string `toml:"cache_dir"`
	LogDir          string `toml:"log_dir"`
}

// Pipeline contains the knobs that shape the derived artifacts.
type Pipeline struct {
	// ExcludeVerbSet drops a verb occurrence entirely when its lemma matches.
	ExcludeVerbSet []string `toml:"exclude_verb_set"`
	// IncludeSRLArgs is the role-label allow-list; roles outside it are
	// discarded, roles inside it that the SRL output lacks become NoneWord.
	IncludeSRLArgs []string `toml:"include_srl_args"`
	NoneWord       string   `toml:"none_word"`
	// NGTProp is the number of ground-truth boxes the gt-k variant keeps
	// per segment.
	NGTProp int `toml:"ngt_prop"`
	// NumFrms is the sampled frame count temporal indices quantize into.
	NumFrms       int     `toml:"num_frms"`
	ResizedWidth  int     `toml:"resized_width"`
	ResizedHeight int     `toml:"resized_height"`
	// PropScoreThreshold excludes low-confidence proposals from entity
	// matching. Boxes below the threshold stay in the segment's proposal
	// list so spatial indices remain stable.
	PropScoreThreshold float64 `toml:"prop_score_threshold"`
	ExcludeBackground  bool    `toml:"exclude_background"`
	// TemporalSkipRatio aborts the run when the fraction of records dropped
	// for out-of-range timings exceeds it.
	TemporalSkipRatio float64 `toml:"temporal_skip_ratio"`
	Workers           int     `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for srlprep.
//
// Configuration sections by subsystem:
//   - Paths: annotation inputs, cache root, and log directory
//   - Pipeline: filtering sets, proposal/frame dimensioning, worker count
//   - Logging: log format and level
type Config struct {
	Paths    Paths    `toml:"paths"`
	Pipeline Pipeline `toml:"pipeline"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/srlprep/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("srlprep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the cache and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CacheDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ExcludedVerbs returns the exclusion set as a lookup map.
func (c *Config) ExcludedVerbs() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Pipeline.ExcludeVerbSet))
	for _, lemma := range c.Pipeline.ExcludeVerbSet {
		set[lemma] = struct{}{}
	}
	return set
}

// IncludedRoles returns the role allow-list as a lookup map.
func (c *Config) IncludedRoles() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Pipeline.IncludeSRLArgs))
	for _, role := range c.Pipeline.IncludeSRLArgs {
		set[role] = struct{}{}
	}
	return set
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
