package config

const (
	defaultStagingDir = "~/.local/share/svgrep/staging"
	defaultLogDir     = "~/.local/share/svgrep/logs"

	defaultMatchMode = "exact"

	defaultPadding     = 0.25
	defaultMergeGap    = 0.20
	defaultMinDuration = 0.05

	defaultASRModel       = "small"
	defaultASRDevice      = "cpu"
	defaultASRComputeType = "int8"

	defaultCacheMaxAgeDays = 30

	defaultClipPrefix = "clip"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
			CacheDir:   defaultCacheDir(),
		},
		Match: Match{
			Mode: defaultMatchMode,
		},
		Segments: Segments{
			Padding:     defaultPadding,
			MergeGap:    defaultMergeGap,
			MinDuration: defaultMinDuration,
		},
		ASR: ASR{
			Model:       defaultASRModel,
			Device:      defaultASRDevice,
			ComputeType: defaultASRComputeType,
		},
		Cache: Cache{
			Enabled:    true,
			MaxAgeDays: defaultCacheMaxAgeDays,
		},
		Output: Output{
			ClipPrefix: defaultClipPrefix,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
