package transcache

import (
	"testing"
	"time"

	"github.com/artemave/super-video-grep/internal/asr"
)

func baseSource() SourceInfo {
	return SourceInfo{
		Path:    "/media/episode.mkv",
		Size:    1 << 30,
		ModTime: time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC),
	}
}

func baseOptions() asr.Options {
	return asr.Options{
		Language:  "en",
		VADFilter: true,
		VADParams: map[string]any{"min_silence_duration_ms": 250, "threshold": 0.4},
		BatchSize: 8,
	}
}

func TestKeyStableAcrossMapConstruction(t *testing.T) {
	first := baseOptions()

	second := baseOptions()
	second.VADParams = map[string]any{}
	second.VADParams["threshold"] = 0.4
	second.VADParams["min_silence_duration_ms"] = 250

	a := Key(baseSource(), 10.0, 12.5, "faster-whisper", first)
	b := Key(baseSource(), 10.0, 12.5, "faster-whisper", second)
	if a != b {
		t.Fatalf("identical inputs produced different keys: %s vs %s", a, b)
	}
}

func TestKeyIgnoresSubMillisecondNoise(t *testing.T) {
	a := Key(baseSource(), 10.0, 12.5, "faster-whisper", baseOptions())
	b := Key(baseSource(), 10.0001, 12.5000002, "faster-whisper", baseOptions())
	if a != b {
		t.Fatal("float noise below a millisecond should not split cache entries")
	}
}

func TestKeyChangesWithInputs(t *testing.T) {
	base := Key(baseSource(), 10.0, 12.5, "faster-whisper", baseOptions())

	cases := []struct {
		name string
		key  string
	}{
		{"mod time", func() string {
			src := baseSource()
			src.ModTime = src.ModTime.Add(time.Second)
			return Key(src, 10.0, 12.5, "faster-whisper", baseOptions())
		}()},
		{"source size", func() string {
			src := baseSource()
			src.Size++
			return Key(src, 10.0, 12.5, "faster-whisper", baseOptions())
		}()},
		{"window start", Key(baseSource(), 10.002, 12.5, "faster-whisper", baseOptions())},
		{"window end", Key(baseSource(), 10.0, 12.6, "faster-whisper", baseOptions())},
		{"engine", Key(baseSource(), 10.0, 12.5, "other-engine", baseOptions())},
		{"language", func() string {
			opts := baseOptions()
			opts.Language = "de"
			return Key(baseSource(), 10.0, 12.5, "faster-whisper", opts)
		}()},
		{"vad filter", func() string {
			opts := baseOptions()
			opts.VADFilter = false
			return Key(baseSource(), 10.0, 12.5, "faster-whisper", opts)
		}()},
		{"vad params", func() string {
			opts := baseOptions()
			opts.VADParams = map[string]any{"min_silence_duration_ms": 250, "threshold": 0.5}
			return Key(baseSource(), 10.0, 12.5, "faster-whisper", opts)
		}()},
		{"batch size", func() string {
			opts := baseOptions()
			opts.BatchSize = 16
			return Key(baseSource(), 10.0, 12.5, "faster-whisper", opts)
		}()},
	}

	seen := map[string]string{base: "base"}
	for _, tc := range cases {
		if prev, dup := seen[tc.key]; dup {
			t.Fatalf("changing %s produced the same key as %s", tc.name, prev)
		}
		seen[tc.key] = tc.name
	}
}
