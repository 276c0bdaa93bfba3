package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artemave/super-video-grep/internal/asr"
	"github.com/artemave/super-video-grep/internal/config"
	"github.com/artemave/super-video-grep/internal/match"
	"github.com/artemave/super-video-grep/internal/services"
	"github.com/artemave/super-video-grep/internal/supercut"
	"github.com/artemave/super-video-grep/internal/timeline"
)

type runOptions struct {
	phrases          []string
	output           string
	subtitles        []string
	subtitleEncoding string
	subtitleStream   int
	subtitleLanguage string
	language         string
	matchMode        string
	padding          float64
	mergeGap         float64
	minDuration      float64
	vadFilter        bool
	batchSize        int
	counter          bool
	counterStart     int
	keepClips        bool
	noCache          bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <phrase> <media>...",
		Short: "Cut a supercut of every spoken match",
		Long: `Run searches the subtitles of each media file for the phrase, refines every
hit to word-level timestamps with speech recognition, and concatenates the
matching moments into one output file.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 2 {
				return services.Wrap(services.ErrConfiguration, "run", "arguments", "need a phrase and at least one media file", nil)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			req, err := opts.request(cfg, args, cmd.Flags().Changed)
			if err != nil {
				return err
			}
			if err := requireTools(cfg); err != nil {
				return err
			}

			pipeline, cleanup, err := newPipeline(cfg, opts.noCache)
			if err != nil {
				return err
			}
			defer cleanup()

			summary, err := pipeline.Run(cmd.Context(), req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, input := range summary.Inputs {
				fmt.Fprintf(out, "%s: %d cues matched, %d segments\n",
					input.MediaPath, input.CoarseMatches, len(input.Spans))
			}
			fmt.Fprintf(out, "Wrote %s (%d clips)\n", summary.OutputPath, summary.ClipCount)
			return nil
		},
	}

	addMatchingFlags(cmd, opts)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "output.mp4", "Destination for the concatenated supercut")
	cmd.Flags().BoolVar(&opts.counter, "counter", false, "Burn a running match counter into each clip")
	cmd.Flags().IntVar(&opts.counterStart, "counter-start", 0, "Value the match counter starts from")
	cmd.Flags().BoolVar(&opts.keepClips, "keep-clips", false, "Keep the per-segment clips next to the output file")

	return cmd
}

// addMatchingFlags registers the flags shared between run and segments. Flag
// defaults are placeholders; values the user did not set come from config.
func addMatchingFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.Flags().StringArrayVar(&opts.phrases, "phrase", nil, "Additional phrase to search for (any phrase may match)")
	cmd.Flags().StringArrayVar(&opts.subtitles, "subtitles", nil, "Sidecar subtitle file, paired with media files by position")
	cmd.Flags().StringVar(&opts.subtitleEncoding, "subtitle-encoding", "", "Character encoding of sidecar subtitle files (default: detect)")
	cmd.Flags().IntVar(&opts.subtitleStream, "subtitle-stream", 0, "Embedded subtitle stream index to extract")
	cmd.Flags().StringVar(&opts.subtitleLanguage, "subtitle-language", "", "Embedded subtitle language to extract (e.g. eng)")
	cmd.Flags().StringVar(&opts.language, "language", "", "Spoken language passed to the recognizer (default: detect)")
	cmd.Flags().StringVar(&opts.matchMode, "match-mode", "", "Token matching mode: exact, prefix, or substring")
	cmd.Flags().Float64Var(&opts.padding, "padding", 0, "Seconds added before and after every match")
	cmd.Flags().Float64Var(&opts.mergeGap, "merge-gap", 0, "Largest gap in seconds across which matches merge")
	cmd.Flags().Float64Var(&opts.minDuration, "min-duration", 0, "Shortest segment in seconds that is kept")
	cmd.Flags().BoolVar(&opts.vadFilter, "vad-filter", false, "Enable voice activity detection during recognition")
	cmd.Flags().IntVar(&opts.batchSize, "batch-size", 0, "Batched inference size (values above 1 enable batching)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Skip the transcript cache for this run")
}

// request merges flags, positional arguments, and config into one pipeline
// request. changed reports whether the user set a flag explicitly, so config
// values survive unset flags.
func (o *runOptions) request(cfg *config.Config, args []string, changed func(name string) bool) (supercut.Request, error) {
	phrases := append([]string{args[0]}, o.phrases...)
	mediaPaths := args[1:]

	if len(o.subtitles) > len(mediaPaths) {
		return supercut.Request{}, services.Wrap(services.ErrConfiguration, "run", "arguments",
			fmt.Sprintf("%d subtitle files given for %d media files", len(o.subtitles), len(mediaPaths)), nil)
	}

	var stream *int
	if changed("subtitle-stream") {
		value := o.subtitleStream
		stream = &value
	}

	inputs := make([]supercut.Input, 0, len(mediaPaths))
	for i, media := range mediaPaths {
		input := supercut.Input{
			MediaPath:        media,
			SubtitleEncoding: o.subtitleEncoding,
			SubtitleStream:   stream,
			SubtitleLanguage: o.subtitleLanguage,
		}
		if i < len(o.subtitles) {
			input.SubtitlePath = o.subtitles[i]
		}
		inputs = append(inputs, input)
	}

	modeName := cfg.Match.Mode
	if changed("match-mode") {
		modeName = o.matchMode
	}
	mode, err := match.ParseMode(modeName)
	if err != nil {
		return supercut.Request{}, services.Wrap(services.ErrConfiguration, "run", "match mode", err.Error(), nil)
	}

	merge := timeline.MergeOptions{
		Padding:     pick(changed("padding"), o.padding, cfg.Segments.Padding),
		MergeGap:    pick(changed("merge-gap"), o.mergeGap, cfg.Segments.MergeGap),
		MinDuration: pick(changed("min-duration"), o.minDuration, cfg.Segments.MinDuration),
	}
	if merge.Padding < 0 || merge.MergeGap < 0 || merge.MinDuration < 0 {
		return supercut.Request{}, services.Wrap(services.ErrConfiguration, "run", "segments",
			"padding, merge gap, and min duration must not be negative", nil)
	}

	asrOptions := asr.Options{
		Language:  o.language,
		VADFilter: cfg.ASR.VADFilter,
		BatchSize: cfg.ASR.BatchSize,
	}
	if asrOptions.Language == "" {
		asrOptions.Language = cfg.ASR.Language
	}
	if changed("vad-filter") {
		asrOptions.VADFilter = o.vadFilter
	}
	if changed("batch-size") {
		asrOptions.BatchSize = o.batchSize
	}

	counter := cfg.Output.Counter
	if changed("counter") {
		counter = o.counter
	}
	keepClips := cfg.Output.KeepClips
	if changed("keep-clips") {
		keepClips = o.keepClips
	}

	return supercut.Request{
		Phrases:      phrases,
		Mode:         mode,
		Inputs:       inputs,
		OutputPath:   o.output,
		Merge:        merge,
		ASR:          asrOptions,
		Counter:      counter,
		CounterStart: o.counterStart,
		ClipPrefix:   cfg.Output.ClipPrefix,
		KeepClips:    keepClips,
	}, nil
}

func pick(explicit bool, flagValue, configValue float64) float64 {
	if explicit {
		return flagValue
	}
	return configValue
}
