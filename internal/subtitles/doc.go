// Package subtitles parses SRT files and runs the coarse matching pass that
// decides which cues are worth transcribing.
//
// The parser tolerates the malformed files subtitle tooling produces in
// practice: missing index lines, stray blank lines inside blocks, markup
// tags, and the usual zoo of encodings (decoded via BOM sniffing plus a
// UTF-16 heuristic). Cue times are absolute media seconds.
package subtitles
