package supercut

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/artemave/super-video-grep/internal/asr"
	"github.com/artemave/super-video-grep/internal/fileutil"
	"github.com/artemave/super-video-grep/internal/logging"
	"github.com/artemave/super-video-grep/internal/match"
	"github.com/artemave/super-video-grep/internal/media/ffmpeg"
	"github.com/artemave/super-video-grep/internal/services"
	"github.com/artemave/super-video-grep/internal/subtitles"
	"github.com/artemave/super-video-grep/internal/textutil"
	"github.com/artemave/super-video-grep/internal/timeline"
	"github.com/artemave/super-video-grep/internal/transcache"
	"github.com/artemave/super-video-grep/internal/workspace"
)

// Plan finds matches and reports the segments a run would cut, without
// rendering anything. A plan with no matches is not an error.
func (p *Pipeline) Plan(ctx context.Context, req Request) (*Summary, error) {
	phrases, err := validateRequest(req)
	if err != nil {
		return nil, err
	}

	ws, err := p.acquire()
	if err != nil {
		return nil, err
	}
	defer p.release(ws)

	return p.plan(services.WithRunID(ctx, ws.RunID), ws, req, phrases)
}

// Run produces the supercut at req.OutputPath.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Summary, error) {
	runStart := time.Now()

	phrases, err := validateRequest(req)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.OutputPath) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "run", "validate", "output path required", nil)
	}

	ws, err := p.acquire()
	if err != nil {
		return nil, err
	}
	defer p.release(ws)

	ctx = services.WithRunID(ctx, ws.RunID)

	summary, err := p.plan(ctx, ws, req, phrases)
	if err != nil {
		return nil, err
	}
	if summary.TotalSpans() == 0 {
		return nil, services.Wrap(services.ErrNoMatches, "run", "match", "no matches found", nil)
	}

	clips, err := p.cutClips(ctx, ws, req, summary)
	if err != nil {
		return nil, err
	}
	if err := p.joinClips(ctx, req, clips); err != nil {
		return nil, err
	}

	summary.ClipCount = len(clips)
	summary.OutputPath = req.OutputPath
	logging.WithContext(ctx, p.logger).Info("supercut written",
		logging.String("output", req.OutputPath),
		logging.Int("clips", len(clips)),
		logging.Duration("run_duration", time.Since(runStart)))
	return summary, nil
}

func validateRequest(req Request) ([]match.Phrase, error) {
	if len(req.Inputs) == 0 {
		return nil, services.Wrap(services.ErrInput, "plan", "validate", "no inputs given", nil)
	}
	for _, input := range req.Inputs {
		if strings.TrimSpace(input.MediaPath) == "" {
			return nil, services.Wrap(services.ErrInput, "plan", "validate", "input media path is empty", nil)
		}
	}
	phrases, err := match.ParsePhrases(req.Phrases)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "plan", "validate", err.Error(), nil)
	}
	return phrases, nil
}

func (p *Pipeline) acquire() (*workspace.Workspace, error) {
	ws, err := workspace.Acquire(p.cfg.Paths.StagingDir, p.logger)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "workspace", "acquire", "staging area unavailable", err)
	}
	return ws, nil
}

func (p *Pipeline) release(ws *workspace.Workspace) {
	if err := ws.Release(); err != nil {
		p.logger.Warn("workspace release failed", logging.Error(err))
	}
}

func (p *Pipeline) plan(ctx context.Context, ws *workspace.Workspace, req Request, phrases []match.Phrase) (*Summary, error) {
	adapter := asr.NewAdapter(p.engine, req.ASR)

	summary := &Summary{}
	for inputIdx, input := range req.Inputs {
		ctxInput := services.WithInput(ctx, input.MediaPath)
		inputSummary, err := p.planInput(ctxInput, ws, req, adapter, phrases, inputIdx, input)
		if err != nil {
			return nil, err
		}
		summary.Inputs = append(summary.Inputs, *inputSummary)
	}
	return summary, nil
}

func (p *Pipeline) planInput(ctx context.Context, ws *workspace.Workspace, req Request, adapter *asr.Adapter, phrases []match.Phrase, inputIdx int, input Input) (*InputSummary, error) {
	inputStart := time.Now()
	logger := logging.WithContext(ctx, p.logger)

	cues, err := p.loadCues(ctx, ws, input, inputIdx)
	if err != nil {
		return nil, err
	}

	matched := subtitles.MatchCues(cues, phrases, req.Mode)
	logger.Info("matched subtitle cues",
		logging.Int("cues", len(cues)),
		logging.Int("matches", len(matched)))

	summary := &InputSummary{
		MediaPath:     input.MediaPath,
		Cues:          len(cues),
		CoarseMatches: len(matched),
	}

	var src transcache.SourceInfo
	if p.cache != nil {
		info, err := transcache.StatSource(input.MediaPath)
		if err != nil {
			logger.Warn("transcript cache disabled for input", logging.Error(err))
		} else {
			src = info
		}
	}

	seenWarnings := make(map[string]struct{})
	var raw []timeline.Span
	for cueIdx, cue := range matched {
		ctxCue := services.WithStage(ctx, fmt.Sprintf("cue %d/%d", cueIdx+1, len(matched)))
		spans, warnings, ok, err := p.refineCue(ctxCue, ws, req, adapter, phrases, src, inputIdx, cueIdx, input, cue)
		if err != nil {
			return nil, err
		}
		if !ok {
			summary.SkippedCues++
			continue
		}
		for _, warning := range warnings {
			if _, dup := seenWarnings[warning]; dup {
				continue
			}
			seenWarnings[warning] = struct{}{}
			summary.Warnings = append(summary.Warnings, warning)
			logging.WithContext(ctxCue, p.logger).Warn("speech recognition degraded",
				logging.String("reason", warning))
		}
		raw = append(raw, spans...)
	}

	summary.RawSpans = raw
	summary.Spans = timeline.PadAndMerge(raw, req.Merge)
	summary.MatchCounts = timeline.CountOverlapping(raw, summary.Spans)

	logger.Info("planned segments",
		logging.Int("raw", len(raw)),
		logging.Int("segments", len(summary.Spans)),
		logging.Int("skipped_cues", summary.SkippedCues),
		logging.Duration("input_duration", time.Since(inputStart)))

	return summary, nil
}

// refineCue narrows one matched cue to word-level spans. The bool result is
// false when the cue had to be skipped because its audio window could not be
// extracted.
func (p *Pipeline) refineCue(ctx context.Context, ws *workspace.Workspace, req Request, adapter *asr.Adapter, phrases []match.Phrase, src transcache.SourceInfo, inputIdx, cueIdx int, input Input, cue subtitles.Cue) ([]timeline.Span, []string, bool, error) {
	logger := logging.WithContext(ctx, p.logger)

	var key string
	if p.cache != nil && src.Path != "" {
		key = transcache.Key(src, cue.Start, cue.End, p.engine.Name(), req.ASR)
		result, found, err := p.cache.Lookup(ctx, key)
		if err != nil {
			logger.Warn("transcript cache lookup failed", logging.Error(err))
		} else if found {
			logger.Debug("transcript cache hit",
				logging.Float64("start", cue.Start),
				logging.Float64("end", cue.End))
			return refineSpans(result, cue, phrases, req.Mode), result.Warnings, true, nil
		}
	}

	audioPath := ws.Path(fmt.Sprintf("window_%03d_%03d.wav", inputIdx+1, cueIdx+1))
	if err := p.media.ExtractAudioWindow(ctx, input.MediaPath, cue.Start, cue.End, audioPath); err != nil {
		logger.Warn("audio window extraction failed; skipping cue", logging.Error(err))
		return nil, nil, false, nil
	}

	transcribeStart := time.Now()
	result, err := adapter.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, nil, false, services.Wrap(services.ErrExternalTool, "transcribe", "speech recognition", "transcription failed", err)
	}
	logger.Debug("window transcribed",
		logging.Int("words", len(result.Words)),
		logging.Duration("transcribe_duration", time.Since(transcribeStart)))

	if p.cache != nil && key != "" {
		entry := transcache.Entry{
			Key:         key,
			SourcePath:  src.Path,
			WindowStart: cue.Start,
			WindowEnd:   cue.End,
			Engine:      p.engine.Name(),
			Result:      result,
		}
		if err := p.cache.Save(ctx, entry); err != nil {
			logger.Warn("transcript cache save failed", logging.Error(err))
		}
	}

	return refineSpans(result, cue, phrases, req.Mode), result.Warnings, true, nil
}

// refineSpans maps word-level matches inside the cue window back to media
// timestamps. When the recognizer finds no phrase the whole cue stands in,
// so a coarse subtitle match is never lost to recognition noise.
func refineSpans(result asr.Result, cue subtitles.Cue, phrases []match.Phrase, mode match.Mode) []timeline.Span {
	local := match.FindAnyPhraseMatches(result.Words, phrases, mode)
	if len(local) == 0 {
		return []timeline.Span{{Start: cue.Start, End: cue.End}}
	}
	spans := make([]timeline.Span, 0, len(local))
	for _, span := range local {
		spans = append(spans, span.Shift(cue.Start))
	}
	return spans
}

func (p *Pipeline) loadCues(ctx context.Context, ws *workspace.Workspace, input Input, inputIdx int) ([]subtitles.Cue, error) {
	encodingName := input.SubtitleEncoding
	if encodingName == "" {
		encodingName = p.cfg.Subtitles.Encoding
	}

	subtitlePath := input.SubtitlePath
	if subtitlePath == "" {
		extracted, err := p.extractSubtitles(ctx, ws, input, inputIdx)
		if err != nil {
			return nil, err
		}
		subtitlePath = extracted
		// ffmpeg writes SRT as UTF-8; a sidecar encoding override must not
		// apply to it.
		encodingName = ""
	}

	cues, err := subtitles.Load(subtitlePath, encodingName)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "subtitles", "load", "failed to read subtitles", err)
	}
	return cues, nil
}

func (p *Pipeline) extractSubtitles(ctx context.Context, ws *workspace.Workspace, input Input, inputIdx int) (string, error) {
	probed, err := p.probe(ctx, p.cfg.FFprobeBinary(), input.MediaPath)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "subtitles", "probe", "media inspection failed", err)
	}

	stream, err := probed.FindSubtitleStream(input.SubtitleStream, p.subtitleLanguage(input))
	if err != nil {
		return "", services.Wrap(services.ErrInput, "subtitles", "select stream", err.Error(), nil)
	}
	if !stream.IsTextSubtitle() {
		return "", services.Wrap(services.ErrInput, "subtitles", "select stream",
			fmt.Sprintf("subtitle codec %q is not text-based", stream.CodecName), nil)
	}

	dest := ws.Path(fmt.Sprintf("subs_%03d.srt", inputIdx+1))
	if err := p.media.ExtractSubtitleStream(ctx, input.MediaPath, dest, stream.Index); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "subtitles", "extract", "subtitle extraction failed", err)
	}

	logging.WithContext(ctx, p.logger).Info("extracted embedded subtitles",
		logging.Int("stream", stream.Index),
		logging.String("language", stream.Language()))
	return dest, nil
}

func (p *Pipeline) subtitleLanguage(input Input) string {
	if input.SubtitleLanguage != "" {
		return input.SubtitleLanguage
	}
	return p.cfg.Subtitles.Language
}

func (p *Pipeline) cutClips(ctx context.Context, ws *workspace.Workspace, req Request, summary *Summary) ([]string, error) {
	prefix := textutil.SanitizeToken(req.ClipPrefix)
	counter := req.CounterStart

	var clips []string
	for inputIdx, input := range summary.Inputs {
		if len(input.Spans) == 0 {
			continue
		}

		jobs := make([]ffmpeg.ClipJob, 0, len(input.Spans))
		for segIdx, span := range input.Spans {
			job := ffmpeg.ClipJob{
				Span:       span,
				OutputPath: ws.Path(fmt.Sprintf("%s_%03d_%03d.mp4", prefix, inputIdx+1, segIdx+1)),
			}
			if req.Counter {
				increment := 1
				if segIdx < len(input.MatchCounts) && input.MatchCounts[segIdx] > 0 {
					increment = input.MatchCounts[segIdx]
				}
				counter += increment
				job.CounterLabel = strconv.Itoa(counter)
			}
			jobs = append(jobs, job)
		}

		ctxInput := services.WithInput(ctx, input.MediaPath)
		written, err := p.media.CutClips(ctxInput, input.MediaPath, jobs)
		clips = append(clips, written...)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, "cut", "clip", "clip rendering failed", err)
		}
		logging.WithContext(ctxInput, p.logger).Info("clips cut", logging.Int("count", len(written)))
	}
	return clips, nil
}

func (p *Pipeline) joinClips(ctx context.Context, req Request, clips []string) error {
	if err := p.media.ConcatClips(ctx, clips, req.OutputPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "concat", "join clips", "concatenation failed", err)
	}
	if req.KeepClips {
		if err := copyClips(req.OutputPath, clips); err != nil {
			p.logger.Warn("failed to keep intermediate clips", logging.Error(err))
		}
	}
	return nil
}

// copyClips preserves per-segment clips next to the final output before the
// scratch directory is removed.
func copyClips(outputPath string, clips []string) error {
	destDir := filepath.Dir(outputPath)
	for _, clip := range clips {
		dest := filepath.Join(destDir, filepath.Base(clip))
		if err := fileutil.CopyFile(clip, dest); err != nil {
			return fmt.Errorf("keep clip %s: %w", filepath.Base(clip), err)
		}
	}
	return nil
}
