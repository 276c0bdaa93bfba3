package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMatch()
	c.normalizeASR()
	c.normalizeSubtitles()
	c.normalizeCache()
	c.normalizeOutput()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMatch() {
	c.Match.Mode = strings.ToLower(strings.TrimSpace(c.Match.Mode))
	if c.Match.Mode == "" {
		c.Match.Mode = defaultMatchMode
	}
}

func (c *Config) normalizeASR() {
	c.ASR.Model = strings.TrimSpace(c.ASR.Model)
	if c.ASR.Model == "" {
		c.ASR.Model = defaultASRModel
	}
	c.ASR.Device = strings.ToLower(strings.TrimSpace(c.ASR.Device))
	if c.ASR.Device == "" {
		c.ASR.Device = defaultASRDevice
	}
	c.ASR.ComputeType = strings.ToLower(strings.TrimSpace(c.ASR.ComputeType))
	if c.ASR.ComputeType == "" {
		c.ASR.ComputeType = defaultASRComputeType
	}
	if c.ASR.CPUThreads < 0 {
		c.ASR.CPUThreads = 0
	}
	if c.ASR.BatchSize < 0 {
		c.ASR.BatchSize = 0
	}
	c.ASR.Language = strings.ToLower(strings.TrimSpace(c.ASR.Language))
}

func (c *Config) normalizeSubtitles() {
	c.Subtitles.Encoding = strings.ToLower(strings.TrimSpace(c.Subtitles.Encoding))
	c.Subtitles.Language = strings.ToLower(strings.TrimSpace(c.Subtitles.Language))
}

func (c *Config) normalizeCache() {
	if c.Cache.MaxAgeDays < 0 {
		c.Cache.MaxAgeDays = 0
	}
}

func (c *Config) normalizeOutput() {
	c.Output.ClipPrefix = strings.TrimSpace(c.Output.ClipPrefix)
	if c.Output.ClipPrefix == "" {
		c.Output.ClipPrefix = defaultClipPrefix
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
