package ffmpeg

import (
	"context"
	"fmt"
)

// ExtractAudioWindow extracts a time window of audio from a source file.
// The output is a mono 16kHz PCM WAV, which is what transcription engines
// want to see.
func (s *Service) ExtractAudioWindow(ctx context.Context, source string, startSec, endSec float64, dest string) error {
	if endSec <= startSec {
		return fmt.Errorf("extract audio: window end %.3f not after start %.3f", endSec, startSec)
	}
	args := append(baseArgs(),
		"-ss", fmt.Sprintf("%.3f", startSec),
		"-i", source,
		"-t", fmt.Sprintf("%.3f", endSec-startSec),
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	)
	if err := s.run(ctx, args...); err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w", err)
	}
	return nil
}

// ExtractSubtitleStream converts one embedded subtitle stream to an SRT file.
// streamIndex is the container stream index as reported by ffprobe.
func (s *Service) ExtractSubtitleStream(ctx context.Context, source, dest string, streamIndex int) error {
	args := append(baseArgs(),
		"-i", source,
		"-map", fmt.Sprintf("0:%d", streamIndex),
		"-c:s", "srt",
		dest,
	)
	if err := s.run(ctx, args...); err != nil {
		return fmt.Errorf("ffmpeg extract subtitles: %w", err)
	}
	return nil
}
