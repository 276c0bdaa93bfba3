package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/artemave/super-video-grep/internal/match"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMatch(); err != nil {
		return err
	}
	if err := c.validateSegments(); err != nil {
		return err
	}
	if err := c.validateASR(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMatch() error {
	if _, err := match.ParseMode(c.Match.Mode); err != nil {
		return fmt.Errorf("match.mode: %w", err)
	}
	return nil
}

func (c *Config) validateSegments() error {
	if c.Segments.Padding < 0 {
		return errors.New("segments.padding must be >= 0")
	}
	if c.Segments.MergeGap < 0 {
		return errors.New("segments.merge_gap must be >= 0")
	}
	if c.Segments.MinDuration < 0 {
		return errors.New("segments.min_duration must be >= 0")
	}
	return nil
}

func (c *Config) validateASR() error {
	switch c.ASR.Device {
	case "cpu", "cuda", "auto":
	default:
		return fmt.Errorf("asr.device must be cpu, cuda, or auto, got %q", c.ASR.Device)
	}
	if strings.TrimSpace(c.ASR.Model) == "" {
		return errors.New("asr.model must be set")
	}
	if strings.TrimSpace(c.ASR.ComputeType) == "" {
		return errors.New("asr.compute_type must be set")
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.Enabled && strings.TrimSpace(c.Paths.CacheDir) == "" {
		return errors.New("paths.cache_dir must be set when cache.enabled is true")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if strings.ContainsAny(c.Output.ClipPrefix, "/\\") {
		return errors.New("output.clip_prefix must not contain path separators")
	}
	return nil
}
