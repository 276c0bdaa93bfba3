// Package whisper runs faster-whisper (via uvx and whisper-ctranslate2) to
// produce word-level timestamps for short audio windows.
//
// This package handles:
//   - uvx argument construction from configuration and per-request options
//   - classification of option rejections so the asr adapter can degrade
//   - transcript JSON parsing into normalized, timed words
//
// The engine is invoked once per matched subtitle window, so startup cost
// dominates; callers should cache results where possible.
package whisper
