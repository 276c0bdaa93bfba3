package supercut

import (
	"context"
	"log/slog"

	"github.com/artemave/super-video-grep/internal/asr"
	"github.com/artemave/super-video-grep/internal/config"
	"github.com/artemave/super-video-grep/internal/logging"
	"github.com/artemave/super-video-grep/internal/match"
	"github.com/artemave/super-video-grep/internal/media/ffmpeg"
	"github.com/artemave/super-video-grep/internal/media/ffprobe"
	"github.com/artemave/super-video-grep/internal/timeline"
	"github.com/artemave/super-video-grep/internal/transcache"
)

// Input describes one media file to search.
type Input struct {
	MediaPath string
	// SubtitlePath points at a sidecar SRT file. Empty means the subtitles
	// are extracted from the container.
	SubtitlePath string
	// SubtitleEncoding overrides the configured sidecar encoding when set.
	SubtitleEncoding string
	// SubtitleStream selects an embedded subtitle track by absolute stream
	// index. Nil defers to SubtitleLanguage, then to the first text track.
	SubtitleStream *int
	// SubtitleLanguage selects an embedded track by language tag (e.g. "eng").
	SubtitleLanguage string
}

// Request carries everything one supercut run needs.
type Request struct {
	Phrases    []string
	Mode       match.Mode
	Inputs     []Input
	OutputPath string
	Merge      timeline.MergeOptions
	ASR        asr.Options
	// Counter burns a running match count into each clip. The first clip's
	// label is CounterStart plus that clip's match count.
	Counter      bool
	CounterStart int
	ClipPrefix   string
	// KeepClips copies the per-segment clips next to the output file instead
	// of discarding them with the scratch directory.
	KeepClips bool
}

// InputSummary reports what one input contributed to the run.
type InputSummary struct {
	MediaPath     string
	Cues          int
	CoarseMatches int
	SkippedCues   int
	// RawSpans are the refined matches in media time, before padding.
	RawSpans []timeline.Span
	// Spans are the final padded and merged segments.
	Spans []timeline.Span
	// MatchCounts holds how many raw matches each segment absorbed.
	MatchCounts []int
	Warnings    []string
}

// Summary reports the outcome of a plan or run.
type Summary struct {
	Inputs     []InputSummary
	ClipCount  int
	OutputPath string
}

// TotalSpans counts final segments across all inputs.
func (s *Summary) TotalSpans() int {
	total := 0
	for _, input := range s.Inputs {
		total += len(input.Spans)
	}
	return total
}

// Pipeline wires subtitle matching, speech recognition refinement, and
// ffmpeg cutting into supercut runs.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger
	engine asr.Engine
	cache  *transcache.Store
	media  *ffmpeg.Service
	probe  func(ctx context.Context, binary, path string) (ffprobe.Result, error)
}

// New builds a pipeline. cache may be nil to disable transcript reuse, and
// media may be nil to use the configured ffmpeg binary.
func New(cfg *config.Config, logger *slog.Logger, engine asr.Engine, cache *transcache.Store, media *ffmpeg.Service) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	if media == nil {
		media = ffmpeg.NewService(cfg.FFmpegBinary())
	}
	return &Pipeline{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "supercut"),
		engine: engine,
		cache:  cache,
		media:  media,
		probe:  ffprobe.Inspect,
	}
}

// WithProber replaces container inspection, primarily for tests.
func (p *Pipeline) WithProber(probe func(ctx context.Context, binary, path string) (ffprobe.Result, error)) {
	if probe != nil {
		p.probe = probe
	}
}
