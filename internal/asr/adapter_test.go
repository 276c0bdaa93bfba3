package asr

import (
	"context"
	"errors"
	"testing"

	"github.com/artemave/super-video-grep/internal/match"
)

// scriptedEngine fails the first len(errs) calls with the scripted errors,
// then succeeds, recording every option set it saw.
type scriptedEngine struct {
	errs  []error
	calls []Options
	words []match.Word
}

func (e *scriptedEngine) Name() string { return "scripted" }

func (e *scriptedEngine) Transcribe(_ context.Context, _ string, opts Options) (Result, error) {
	call := len(e.calls)
	e.calls = append(e.calls, opts)
	if call < len(e.errs) && e.errs[call] != nil {
		return Result{}, e.errs[call]
	}
	return Result{Words: e.words}, nil
}

func testWords() []match.Word {
	return []match.Word{{Start: 0.1, End: 0.4, Text: "hello", Norm: "hello"}}
}

func TestAdapterPlainRequestPassesThrough(t *testing.T) {
	engine := &scriptedEngine{words: testWords()}
	adapter := NewAdapter(engine, Options{Language: "en"})

	result, err := adapter.Transcribe(context.Background(), "clip.wav")
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if len(engine.calls) != 1 {
		t.Fatalf("expected one engine call, got %d", len(engine.calls))
	}
	if engine.calls[0].Language != "en" {
		t.Fatalf("options not passed through: %+v", engine.calls[0])
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
	if len(result.Words) != 1 {
		t.Fatalf("unexpected words: %+v", result.Words)
	}
}

func TestAdapterBatchedFirstTrySucceeds(t *testing.T) {
	engine := &scriptedEngine{words: testWords()}
	adapter := NewAdapter(engine, Options{BatchSize: 8, VADFilter: true})

	result, err := adapter.Transcribe(context.Background(), "clip.wav")
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if len(engine.calls) != 1 {
		t.Fatalf("expected one engine call, got %d", len(engine.calls))
	}
	if engine.calls[0].BatchSize != 8 || !engine.calls[0].VADFilter {
		t.Fatalf("batched options not passed: %+v", engine.calls[0])
	}
	if len(result.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestAdapterBatchUnavailableFallsBackWithVADIntact(t *testing.T) {
	engine := &scriptedEngine{
		errs:  []error{&UnsupportedOptionError{Option: OptionBatch}},
		words: testWords(),
	}
	adapter := NewAdapter(engine, Options{BatchSize: 8, VADFilter: true})

	result, err := adapter.Transcribe(context.Background(), "clip.wav")
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if len(engine.calls) != 2 {
		t.Fatalf("expected two engine calls, got %d", len(engine.calls))
	}
	fallback := engine.calls[1]
	if fallback.BatchSize != 0 {
		t.Fatalf("fallback should disable batching: %+v", fallback)
	}
	if !fallback.VADFilter {
		t.Fatalf("fallback should keep VAD: %+v", fallback)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != warnBatchUnavailable {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestAdapterBatchedDropsVADThenSucceeds(t *testing.T) {
	engine := &scriptedEngine{
		errs:  []error{&UnsupportedOptionError{Option: OptionVAD}},
		words: testWords(),
	}
	adapter := NewAdapter(engine, Options{BatchSize: 8, VADFilter: true, VADParams: map[string]any{"min_silence_duration_ms": 250}})

	result, err := adapter.Transcribe(context.Background(), "clip.wav")
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if len(engine.calls) != 2 {
		t.Fatalf("expected two engine calls, got %d", len(engine.calls))
	}
	second := engine.calls[1]
	if second.BatchSize != 8 {
		t.Fatalf("second attempt should stay batched: %+v", second)
	}
	if second.VADFilter || second.VADParams != nil {
		t.Fatalf("second attempt should strip VAD: %+v", second)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != warnBatchDroppedVAD {
		t.Fatalf("unexpected warnings: %v", result.Warnings)
	}
}

func TestAdapterBatchedRejectedTwiceLandsNonBatched(t *testing.T) {
	engine := &scriptedEngine{
		errs: []error{
			&UnsupportedOptionError{Option: OptionVAD},
			&UnsupportedOptionError{Option: "beam_size"},
		},
		words: testWords(),
	}
	adapter := NewAdapter(engine, Options{BatchSize: 8, VADFilter: true})

	result, err := adapter.Transcribe(context.Background(), "clip.wav")
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if len(engine.calls) != 3 {
		t.Fatalf("expected three engine calls, got %d", len(engine.calls))
	}
	last := engine.calls[2]
	if last.BatchSize != 0 {
		t.Fatalf("final attempt should disable batching: %+v", last)
	}
	if !last.VADFilter {
		t.Fatalf("final attempt should restore VAD: %+v", last)
	}
	if len(result.Warnings) != 1 || result.Warnings[0] != warnBatchRejected {
		t.Fatalf("only the final degradation should be reported, got %v", result.Warnings)
	}
}

func TestAdapterRealErrorPropagatesFromBatchedRung(t *testing.T) {
	boom := errors.New("model download failed")
	engine := &scriptedEngine{errs: []error{boom}}
	adapter := NewAdapter(engine, Options{BatchSize: 8})

	_, err := adapter.Transcribe(context.Background(), "clip.wav")
	if !errors.Is(err, boom) {
		t.Fatalf("expected original error, got %v", err)
	}
	if len(engine.calls) != 1 {
		t.Fatalf("real errors must not trigger fallback, got %d calls", len(engine.calls))
	}
}

func TestAdapterNonBatchedFailurePropagates(t *testing.T) {
	engine := &scriptedEngine{
		errs: []error{
			&UnsupportedOptionError{Option: OptionBatch},
			&UnsupportedOptionError{Option: OptionVAD},
		},
	}
	adapter := NewAdapter(engine, Options{BatchSize: 8, VADFilter: true})

	_, err := adapter.Transcribe(context.Background(), "clip.wav")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrUnsupportedOptions) {
		t.Fatalf("expected unsupported option error, got %v", err)
	}
	if len(engine.calls) != 2 {
		t.Fatalf("non-batched rung must not retry, got %d calls", len(engine.calls))
	}
}
