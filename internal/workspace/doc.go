// Package workspace manages the staging directory a supercut run works in:
// a file lock that keeps concurrent runs from trampling each other, a
// per-run scratch directory for audio windows and clips, and cleanup of
// scratch directories left behind by crashed runs.
package workspace
