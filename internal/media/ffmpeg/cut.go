package ffmpeg

import (
	"context"
	"fmt"
	"strings"

	"github.com/artemave/super-video-grep/internal/timeline"
)

// ClipJob describes one clip to cut from a source file.
type ClipJob struct {
	Span       timeline.Span
	OutputPath string
	// CounterLabel, when non-empty, is burned into the clip's top left
	// corner.
	CounterLabel string
}

// CutClips re-encodes one clip per job from the source file and returns the
// paths written. Jobs whose span has no duration are skipped.
func (s *Service) CutClips(ctx context.Context, source string, jobs []ClipJob) ([]string, error) {
	written := make([]string, 0, len(jobs))
	for _, job := range jobs {
		duration := job.Span.Duration()
		if duration <= 0 {
			continue
		}
		args := append(baseArgs(),
			"-ss", fmt.Sprintf("%.3f", job.Span.Start),
			"-i", source,
			"-t", fmt.Sprintf("%.3f", duration),
		)
		if job.CounterLabel != "" {
			args = append(args, "-vf", drawtextFilter(job.CounterLabel))
		}
		args = append(args,
			"-c:v", "libx264",
			"-c:a", "aac",
			"-preset", "veryfast",
			"-crf", "23",
			job.OutputPath,
		)
		if err := s.run(ctx, args...); err != nil {
			return written, fmt.Errorf("ffmpeg cut %s: %w", job.OutputPath, err)
		}
		written = append(written, job.OutputPath)
	}
	return written, nil
}

func drawtextFilter(label string) string {
	return fmt.Sprintf(
		"drawtext=text='%s':x=24:y=24:fontsize=56:fontcolor=white:box=1:boxcolor=black@0.5:boxborderw=6",
		escapeDrawtext(label),
	)
}

// escapeDrawtext escapes the characters the drawtext filter parser treats
// specially. Backslashes go first so later escapes survive.
func escapeDrawtext(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, ":", `\:`)
	text = strings.ReplaceAll(text, "'", `\'`)
	return text
}
