package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/artemave/super-video-grep/internal/logging"
	"github.com/artemave/super-video-grep/internal/preflight"
)

// LockFileName guards a staging directory against concurrent runs.
const LockFileName = "svgrep.lock"

// scratchPrefix names per-run scratch directories so stale cleanup can tell
// them apart from anything else inside the staging directory.
const scratchPrefix = "run-"

// Workspace is one run's private scratch area inside the staging directory.
type Workspace struct {
	StagingDir string
	RunID      string
	ScratchDir string

	lock     *flock.Flock
	logger   *slog.Logger
	released atomic.Bool
}

// Acquire locks the staging directory and creates a fresh scratch directory
// for this run. Callers must Release when done.
func Acquire(stagingDir string, logger *slog.Logger) (*Workspace, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, fmt.Errorf("create staging directory: %w", err)
	}

	lock := flock.New(filepath.Join(stagingDir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire staging lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another svgrep run is using staging directory %s", stagingDir)
	}

	runID := uuid.NewString()
	scratch := filepath.Join(stagingDir, scratchPrefix+runID)
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("create scratch directory: %w", err)
	}

	if free, err := preflight.FreeSpace(stagingDir); err == nil && free < preflight.MinFreeBytes {
		logger.Warn("staging space low",
			logging.String("staging_dir", stagingDir),
			logging.String("free", preflight.FormatBytes(free)))
	}

	return &Workspace{
		StagingDir: stagingDir,
		RunID:      runID,
		ScratchDir: scratch,
		lock:       lock,
		logger:     logger,
	}, nil
}

// Path returns the scratch location for name.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.ScratchDir, name)
}

// Release removes the scratch directory and drops the staging lock. It is
// safe to call more than once.
func (w *Workspace) Release() error {
	if w == nil || !w.released.CompareAndSwap(false, true) {
		return nil
	}

	removeErr := os.RemoveAll(w.ScratchDir)
	unlockErr := w.lock.Unlock()

	if removeErr != nil {
		if unlockErr != nil {
			w.logger.Warn("failed to release staging lock", logging.Error(unlockErr))
		}
		return fmt.Errorf("remove scratch directory: %w", removeErr)
	}
	if unlockErr != nil {
		return fmt.Errorf("release staging lock: %w", unlockErr)
	}
	return nil
}
