// Package main hosts the svgrep CLI entrypoint and command graph.
//
// The Cobra-based command tree turns terminal invocations into supercut
// pipeline runs, segment previews, transcript cache maintenance, tool
// checks, and configuration scaffolding. It centralizes configuration
// resolution and logger setup so subcommands can focus on flags and output.
//
// Keep this package lean: new behavior belongs in the internal packages
// first, surfaced here through dedicated commands or flags.
package main
