package transcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/artemave/super-video-grep/internal/asr"
)

// SourceInfo pins a cache entry to one exact version of a media file.
type SourceInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatSource collects the identifying attributes of path.
func StatSource(path string) (SourceInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SourceInfo{}, fmt.Errorf("stat source: %w", err)
	}
	return SourceInfo{Path: path, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Key derives the cache key for one transcription window. Every input that
// changes the recognized words participates: the source file version, the
// window bounds, the engine, and the recognition options.
func Key(src SourceInfo, startSec, endSec float64, engine string, opts asr.Options) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\n%d\n%d\n", src.Path, src.Size, src.ModTime.UTC().UnixNano())
	fmt.Fprintf(h, "%d\n%d\n", windowMillis(startSec), windowMillis(endSec))
	fmt.Fprintf(h, "%s\n%s\n%t\n%d\n", engine, opts.Language, opts.VADFilter, opts.BatchSize)

	params := make([]string, 0, len(opts.VADParams))
	for name := range opts.VADParams {
		params = append(params, name)
	}
	sort.Strings(params)
	for _, name := range params {
		fmt.Fprintf(h, "%s=%v\n", name, opts.VADParams[name])
	}

	return hex.EncodeToString(h.Sum(nil))
}

// windowMillis rounds a window bound to whole milliseconds so float noise
// below timestamp resolution cannot split cache entries.
func windowMillis(sec float64) int64 {
	return int64(math.Round(sec * 1000))
}
