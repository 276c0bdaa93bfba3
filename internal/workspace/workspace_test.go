package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAcquireCreatesScratchDirectory(t *testing.T) {
	stagingDir := filepath.Join(t.TempDir(), "staging")

	ws, err := Acquire(stagingDir, nil)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer ws.Release()

	if ws.RunID == "" {
		t.Fatal("expected a run ID")
	}
	if filepath.Dir(ws.ScratchDir) != stagingDir {
		t.Fatalf("scratch dir %s not inside staging dir %s", ws.ScratchDir, stagingDir)
	}
	if !strings.HasPrefix(filepath.Base(ws.ScratchDir), scratchPrefix) {
		t.Fatalf("scratch dir %s missing prefix", ws.ScratchDir)
	}
	if info, err := os.Stat(ws.ScratchDir); err != nil || !info.IsDir() {
		t.Fatalf("scratch dir not created: %v", err)
	}

	want := filepath.Join(ws.ScratchDir, "window_000.wav")
	if got := ws.Path("window_000.wav"); got != want {
		t.Fatalf("Path = %s, want %s", got, want)
	}
}

func TestAcquireIsExclusive(t *testing.T) {
	stagingDir := filepath.Join(t.TempDir(), "staging")

	first, err := Acquire(stagingDir, nil)
	if err != nil {
		t.Fatalf("first Acquire failed: %v", err)
	}

	if _, err := Acquire(stagingDir, nil); err == nil {
		t.Fatal("expected second Acquire to fail while lock held")
	} else if !strings.Contains(err.Error(), "another svgrep run") {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}

	third, err := Acquire(stagingDir, nil)
	if err != nil {
		t.Fatalf("Acquire after release failed: %v", err)
	}
	_ = third.Release()
}

func TestReleaseIsIdempotent(t *testing.T) {
	ws, err := Acquire(filepath.Join(t.TempDir(), "staging"), nil)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	if err := ws.Release(); err != nil {
		t.Fatalf("first Release failed: %v", err)
	}
	if _, err := os.Stat(ws.ScratchDir); !os.IsNotExist(err) {
		t.Fatalf("scratch dir should be removed, stat err=%v", err)
	}
	if err := ws.Release(); err != nil {
		t.Fatalf("second Release should be a no-op, got %v", err)
	}
}
