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

// Paths contains directory configuration.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	LogDir     string `toml:"log_dir"`
	CacheDir   string `toml:"cache_dir"`
}

// Match contains phrase matching configuration.
type Match struct {
	Mode string `toml:"mode"`
}

// Segments controls how matched spans become output intervals.
type Segments struct {
	Padding     float64 `toml:"padding"`
	MergeGap    float64 `toml:"merge_gap"`
	MinDuration float64 `toml:"min_duration"`
}

// ASR contains configuration for the speech recognition engine.
type ASR struct {
	Model       string `toml:"model"`
	Device      string `toml:"device"`
	ComputeType string `toml:"compute_type"`
	CPUThreads  int    `toml:"cpu_threads"`
	BatchSize   int    `toml:"batch_size"`
	VADFilter   bool   `toml:"vad_filter"`
	Language    string `toml:"language"`
}

// Subtitles contains configuration for subtitle loading and extraction.
type Subtitles struct {
	// Encoding forces a character encoding for sidecar subtitle files.
	// Empty means detect from byte order marks and content.
	Encoding string `toml:"encoding"`
	// Language selects the embedded subtitle track to extract when no
	// sidecar file is given (e.g. "eng").
	Language string `toml:"language"`
}

// Cache contains configuration for the transcription cache.
type Cache struct {
	Enabled    bool `toml:"enabled"`
	MaxAgeDays int  `toml:"max_age_days"`
}

// Output contains configuration for clip rendering.
type Output struct {
	ClipPrefix string `toml:"clip_prefix"`
	Counter    bool   `toml:"counter"`
	KeepClips  bool   `toml:"keep_clips"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for svgrep.
//
// Configuration sections by subsystem:
//   - Paths: staging, log, and cache directories
//   - Match: phrase matching mode
//   - Segments: padding, merging, and duration filtering
//   - ASR: speech recognition model and runtime options
//   - Subtitles: sidecar encoding and embedded track selection
//   - Cache: transcription cache toggles and retention
//   - Output: clip naming, counter overlay, and retention
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Match     Match     `toml:"match"`
	Segments  Segments  `toml:"segments"`
	ASR       ASR       `toml:"asr"`
	Subtitles Subtitles `toml:"subtitles"`
	Cache     Cache     `toml:"cache"`
	Output    Output    `toml:"output"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/svgrep/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
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

	projectPath, err := filepath.Abs("svgrep.toml")
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

// EnsureDirectories creates the directories a run needs. The cache directory
// is only created when the cache is enabled.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Cache.Enabled && strings.TrimSpace(c.Paths.CacheDir) != "" {
		if err := os.MkdirAll(c.Paths.CacheDir, 0o755); err != nil {
			return fmt.Errorf("create cache directory %q: %w", c.Paths.CacheDir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable name used for cutting and extraction.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for media inspection.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
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

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "svgrep")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.cache/svgrep"
	}
	return filepath.Join(home, ".cache", "svgrep")
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
