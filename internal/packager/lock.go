package packager

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	pkgerrors "github.com/KellyJDavis/lean-explore/internal/errors"
)

// RunLock provides cross-process locking of a data directory so two
// concurrent manifest runs cannot clobber the shared temp namespace.
// Works on all platforms (Unix, Linux, macOS, Windows).
type RunLock struct {
	path   string
	flock  *flock.Flock
	locked bool
}

// NewRunLock creates a lock for the given data directory. The lock file is
// created at <dir>/.manifest.lock and operates on the real filesystem.
func NewRunLock(dir string) *RunLock {
	lockPath := filepath.Join(dir, ".manifest.lock")
	return &RunLock{
		path:  lockPath,
		flock: flock.New(lockPath),
	}
}

// Acquire attempts to take the lock without blocking. It fails immediately if
// another run holds it; a packaging run that has to wait is almost always a
// mistake worth surfacing.
func (l *RunLock) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return pkgerrors.New(pkgerrors.ErrCodeFileWrite,
			fmt.Sprintf("failed to create lock directory for %s", l.path), err)
	}

	acquired, err := l.flock.TryLock()
	if err != nil {
		return pkgerrors.New(pkgerrors.ErrCodeLockUnavailable,
			fmt.Sprintf("failed to acquire run lock %s", l.path), err)
	}
	if !acquired {
		return pkgerrors.New(pkgerrors.ErrCodeLockUnavailable,
			fmt.Sprintf("another manifest run holds the lock %s", l.path), nil).
			WithSuggestion("Wait for the other run to finish, or remove the lock file if it is stale")
	}

	l.locked = true
	return nil
}

// Release unlocks and removes the lock file. Safe to call when not held.
func (l *RunLock) Release() error {
	if !l.locked {
		return nil
	}

	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("failed to release run lock: %w", err)
	}
	l.locked = false

	_ = os.Remove(l.path)
	return nil
}
