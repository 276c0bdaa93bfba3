package asr

import (
	"context"
	"errors"
)

const (
	warnBatchUnavailable = "batched inference not available; falling back to non-batched mode"
	warnBatchDroppedVAD  = "batched inference ignored VAD options; running without VAD"
	warnBatchRejected    = "batched inference rejected options; falling back to non-batched mode"
)

type rung struct {
	opts    Options
	batched bool
}

// Adapter retries a transcription request with progressively reduced options
// when the engine rejects them. The ladder goes batched with everything,
// batched without VAD, then non-batched with everything. Only option
// rejections trigger a step down; any other failure, and any failure in
// non-batched mode, propagates.
type Adapter struct {
	engine Engine
	rungs  []rung
}

// NewAdapter builds the degradation ladder for the given request options.
func NewAdapter(engine Engine, opts Options) *Adapter {
	rungs := []rung{{opts: opts, batched: opts.batched()}}
	if opts.batched() {
		if opts.wantsVAD() {
			stripped := opts
			stripped.VADFilter = false
			stripped.VADParams = nil
			rungs = append(rungs, rung{opts: stripped, batched: true})
		}
		nonBatched := opts
		nonBatched.BatchSize = 0
		rungs = append(rungs, rung{opts: nonBatched, batched: false})
	}
	return &Adapter{engine: engine, rungs: rungs}
}

// Engine returns the wrapped engine.
func (a *Adapter) Engine() Engine { return a.engine }

// Transcribe walks the ladder until a rung succeeds. A single degradation
// warning describing how far the request fell is appended to the successful
// result; intermediate steps overwrite it so the caller sees the outcome,
// not the journey.
func (a *Adapter) Transcribe(ctx context.Context, audioPath string) (Result, error) {
	var pending string
	for i := 0; i < len(a.rungs); i++ {
		result, err := a.engine.Transcribe(ctx, audioPath, a.rungs[i].opts)
		if err == nil {
			if pending != "" {
				result.Warnings = append(result.Warnings, pending)
			}
			return result, nil
		}
		if !a.rungs[i].batched {
			return Result{}, err
		}
		var unsupported *UnsupportedOptionError
		if !errors.As(err, &unsupported) {
			return Result{}, err
		}
		if unsupported.Option == OptionBatch {
			// Batched mode itself is unavailable; skip straight past any
			// batched rungs still queued.
			pending = warnBatchUnavailable
			i = a.firstNonBatched() - 1
			continue
		}
		next := i + 1
		if next >= len(a.rungs) {
			return Result{}, err
		}
		if a.rungs[next].batched {
			pending = warnBatchDroppedVAD
		} else {
			pending = warnBatchRejected
		}
	}
	return Result{}, errors.New("transcription attempts exhausted")
}

func (a *Adapter) firstNonBatched() int {
	for i, r := range a.rungs {
		if !r.batched {
			return i
		}
	}
	return len(a.rungs) - 1
}
