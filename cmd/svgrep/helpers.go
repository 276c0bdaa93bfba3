package main

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/artemave/super-video-grep/internal/config"
	"github.com/artemave/super-video-grep/internal/deps"
	"github.com/artemave/super-video-grep/internal/logging"
	"github.com/artemave/super-video-grep/internal/preflight"
	"github.com/artemave/super-video-grep/internal/services"
	"github.com/artemave/super-video-grep/internal/services/whisper"
	"github.com/artemave/super-video-grep/internal/supercut"
	"github.com/artemave/super-video-grep/internal/transcache"
	"github.com/artemave/super-video-grep/internal/workspace"
)

// Scratch directories from interrupted runs are swept before a new run. Live
// runs hold the staging lock and are always younger than this.
const staleScratchMaxAge = 24 * time.Hour

// newPipeline wires the recognizer, transcript cache, and ffmpeg into a
// supercut pipeline. The returned cleanup closes the cache when one opened.
func newPipeline(cfg *config.Config, noCache bool) (*supercut.Pipeline, func(), error) {
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrConfiguration, "cli", "logger", err.Error(), nil)
	}

	engine := whisper.NewService(whisper.Config{
		Model:       cfg.ASR.Model,
		Device:      cfg.ASR.Device,
		ComputeType: cfg.ASR.ComputeType,
		CPUThreads:  cfg.ASR.CPUThreads,
	})

	var cache *transcache.Store
	if !noCache && cfg.Cache.Enabled && strings.TrimSpace(cfg.Paths.CacheDir) != "" {
		store, err := transcache.Open(filepath.Join(cfg.Paths.CacheDir, transcache.FileName))
		if err != nil {
			logger.Warn("transcript cache unavailable; continuing without it", logging.Error(err))
		} else {
			cache = store
		}
	}

	workspace.CleanStale(cfg.Paths.StagingDir, staleScratchMaxAge, logger)

	cleanup := func() {
		if cache != nil {
			_ = cache.Close()
		}
	}
	return supercut.New(cfg, logger, engine, cache, nil), cleanup, nil
}

// requireTools fails fast when a required external binary is missing, before
// any staging or matching work starts.
func requireTools(cfg *config.Config) error {
	missing := deps.Missing(preflight.CheckSystemDeps(cfg))
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, 0, len(missing))
	for _, status := range missing {
		names = append(names, status.Name)
	}
	return services.Wrap(services.ErrExternalTool, "cli", "preflight",
		"missing required tools: "+strings.Join(names, ", ")+" (run 'svgrep tools' for details)", nil)
}
