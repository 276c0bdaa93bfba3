// Package supercut orchestrates a full phrase-search run: subtitle cues give
// coarse match windows, speech recognition refines them to word timing, the
// refined spans are padded and merged into segments, and ffmpeg cuts and
// joins the segments into one output video.
//
// Refinement never loses a coarse match. When recognition finds no phrase
// inside a matched cue's audio, the whole cue window is used instead, so the
// output degrades toward subtitle timing rather than dropping content.
package supercut
