// Package preflight verifies the host is ready for a supercut run: required
// directories exist and are writable, the staging filesystem has room for
// clips, and the external binaries are on PATH.
package preflight
