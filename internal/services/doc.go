// Package services defines shared utilities consumed by the pipeline stages
// and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, input paths, and stage names
//     for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent process exit codes.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
