package testsupport

import (
	"path/filepath"
	"testing"

	"github.com/artemave/super-video-grep/internal/config"
	"github.com/artemave/super-video-grep/internal/transcache"
)

// MustOpenCache opens a transcript cache in the config's cache directory and
// registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *transcache.Store {
	t.Helper()

	store, err := transcache.Open(filepath.Join(cfg.Paths.CacheDir, transcache.FileName))
	if err != nil {
		t.Fatalf("transcache.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
