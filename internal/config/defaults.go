package config

const (
	defaultCacheDir           = "~/.cache/srlprep"
	defaultLogDir             = "~/.local/share/srlprep/logs"
	defaultNoneWord           = "none"
	defaultNGTProp            = 5
	defaultNumFrms            = 10
	defaultResizedWidth       = 720
	defaultResizedHeight      = 405
	defaultPropScoreThreshold = 0.2
	defaultTemporalSkipRatio  = 0.05
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	maxWorkers                = 8
)

func defaultIncludeSRLArgs() []string {
	return []string{"ARG0", "ARG1", "ARG2", "ARGM-LOC"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
		},
		Pipeline: Pipeline{
			IncludeSRLArgs:     defaultIncludeSRLArgs(),
			NoneWord:           defaultNoneWord,
			NGTProp:            defaultNGTProp,
			NumFrms:            defaultNumFrms,
			ResizedWidth:       defaultResizedWidth,
			ResizedHeight:      defaultResizedHeight,
			PropScoreThreshold: defaultPropScoreThreshold,
			ExcludeBackground:  true,
			TemporalSkipRatio:  defaultTemporalSkipRatio,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
