// Package ffprobe inspects media containers and selects subtitle streams.
package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/artemave/super-video-grep/internal/language"
)

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index     int               `json:"index"`
	CodecName string            `json:"codec_name"`
	CodecType string            `json:"codec_type"`
	Tags      map[string]string `json:"tags"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// Language returns the stream's language tag, lowercased, or "" when untagged.
func (s Stream) Language() string {
	for key, value := range s.Tags {
		if strings.EqualFold(key, "language") {
			return strings.ToLower(strings.TrimSpace(value))
		}
	}
	return ""
}

// Text subtitle codecs ffmpeg can convert to SRT. Bitmap formats (pgs,
// dvd_subtitle) carry no text to search.
var textSubtitleCodecs = map[string]struct{}{
	"subrip":   {},
	"srt":      {},
	"ass":      {},
	"ssa":      {},
	"webvtt":   {},
	"mov_text": {},
}

// IsTextSubtitle reports whether the stream's codec can be converted to SRT.
func (s Stream) IsTextSubtitle() bool {
	_, ok := textSubtitleCodecs[strings.ToLower(s.CodecName)]
	return ok
}

// SubtitleStreams returns the container's subtitle streams in order.
func (r Result) SubtitleStreams() []Stream {
	var subs []Stream
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "subtitle") {
			subs = append(subs, stream)
		}
	}
	return subs
}

// FindSubtitleStream selects a subtitle stream. An explicit index wins, then
// a language tag match, then the first subtitle stream. The selected stream
// may still be a bitmap codec; callers check IsTextSubtitle before extraction.
func (r Result) FindSubtitleStream(streamIndex *int, lang string) (Stream, error) {
	subs := r.SubtitleStreams()
	if len(subs) == 0 {
		return Stream{}, errors.New("no subtitle streams found")
	}
	if streamIndex != nil {
		for _, stream := range subs {
			if stream.Index == *streamIndex {
				return stream, nil
			}
		}
		return Stream{}, fmt.Errorf("subtitle stream index %d not found", *streamIndex)
	}
	if lang = strings.TrimSpace(lang); lang != "" {
		// Containers usually tag streams with ISO 639-2 codes ("eng") while
		// users type two-letter codes or names, so compare normalized forms.
		for _, stream := range subs {
			if language.Same(stream.Language(), lang) {
				return stream, nil
			}
		}
		return Stream{}, fmt.Errorf("no subtitle stream with language %q", lang)
	}
	return subs[0], nil
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	cleaned := strings.TrimSpace(r.Format.Duration)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil && parsed > 0 {
		return parsed
	}
	return 0
}
