// Package asr defines the speech recognition engine contract and the option
// degradation ladder shared by every engine implementation.
package asr

import (
	"context"
	"errors"
	"fmt"

	"github.com/artemave/super-video-grep/internal/match"
)

// Option names reported by engines when they reject a request.
const (
	OptionBatch = "batch_size"
	OptionVAD   = "vad_filter"
)

// ErrUnsupportedOptions marks failures caused by the engine rejecting a
// requested option rather than by the audio itself.
var ErrUnsupportedOptions = errors.New("unsupported transcription options")

// UnsupportedOptionError reports which option an engine rejected.
type UnsupportedOptionError struct {
	Option string
}

func (e *UnsupportedOptionError) Error() string {
	return fmt.Sprintf("transcription engine rejected option %q", e.Option)
}

func (e *UnsupportedOptionError) Unwrap() error { return ErrUnsupportedOptions }

// Options are per-request transcription parameters. Zero values mean the
// engine's own defaults.
type Options struct {
	// Language forces a transcription language instead of auto-detection.
	Language string
	// VADFilter enables voice activity detection.
	VADFilter bool
	// VADParams carries engine specific VAD tuning values.
	VADParams map[string]any
	// BatchSize above 1 requests batched inference.
	BatchSize int
}

func (o Options) batched() bool {
	return o.BatchSize > 1
}

func (o Options) wantsVAD() bool {
	return o.VADFilter || len(o.VADParams) > 0
}

// Result is a transcription of one audio window.
type Result struct {
	Words    []match.Word
	Warnings []string
}

// Engine transcribes an audio file into timed words. Implementations signal
// option rejections with UnsupportedOptionError so the adapter can degrade
// the request instead of failing the run.
type Engine interface {
	Name() string
	Transcribe(ctx context.Context, audioPath string, opts Options) (Result, error)
}
