// Package transcache persists per-window transcription results in SQLite so
// repeated searches over the same media reuse earlier speech recognition work.
// Entries are keyed by a fingerprint of the source file, the audio window, and
// the recognition options, so any change to the inputs misses cleanly.
package transcache
