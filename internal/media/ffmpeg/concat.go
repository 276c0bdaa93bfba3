package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/artemave/super-video-grep/internal/fileutil"
)

// ConcatClips joins already-encoded clips into the output file using the
// concat demuxer with stream copy. A single clip is copied directly.
func (s *Service) ConcatClips(ctx context.Context, clips []string, outputPath string) error {
	if len(clips) == 0 {
		return errors.New("concat: no clips to join")
	}
	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("concat: create output directory: %w", err)
		}
	}
	if len(clips) == 1 {
		if err := fileutil.CopyFileVerified(clips[0], outputPath); err != nil {
			return fmt.Errorf("concat: copy single clip: %w", err)
		}
		return nil
	}

	listPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".concat.txt"
	var list strings.Builder
	for _, clip := range clips {
		fmt.Fprintf(&list, "file '%s'\n", clip)
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return fmt.Errorf("concat: write list file: %w", err)
	}
	defer os.Remove(listPath)

	args := append(baseArgs(),
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outputPath,
	)
	if err := s.run(ctx, args...); err != nil {
		return fmt.Errorf("ffmpeg concat: %w", err)
	}
	return nil
}
