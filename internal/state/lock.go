package state

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ErrLocked is returned when another process already holds the run lock.
var ErrLocked = fmt.Errorf("another lustro process is running")

// Lock takes an advisory exclusive lock next to the state file so overlapping
// scheduled runs cannot race each other. The returned release function must
// be called when the run completes.
func Lock(statePath string) (release func(), err error) {
	lockPath := statePath + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	fd, err := os.OpenFile(lockPath, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := unix.Flock(int(fd.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = fd.Close()
		return nil, fmt.Errorf("%w (lock: %s)", ErrLocked, lockPath)
	}
	return func() {
		_ = unix.Flock(int(fd.Fd()), unix.LOCK_UN)
		_ = fd.Close()
		_ = os.Remove(lockPath)
	}, nil
}
