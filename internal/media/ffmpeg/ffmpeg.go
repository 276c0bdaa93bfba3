// Package ffmpeg drives the ffmpeg binary for audio window extraction,
// subtitle stream conversion, clip cutting, and concatenation.
package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Service runs ffmpeg commands against a single binary.
type Service struct {
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) (string, error)
}

// NewService creates an ffmpeg service for the given binary name.
func NewService(binary string) *Service {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &Service{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) (string, error)) {
	s.commandRunner = runner
}

// run executes ffmpeg, using the custom runner if set.
func (s *Service) run(ctx context.Context, args ...string) error {
	if s.commandRunner != nil {
		_, err := s.commandRunner(ctx, s.binary, args...)
		return err
	}
	cmd := exec.CommandContext(ctx, s.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", s.binary, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// baseArgs are shared by every invocation: overwrite outputs and keep the
// console quiet so errors are all that surfaces.
func baseArgs() []string {
	return []string{"-y", "-hide_banner", "-loglevel", "error"}
}
