// Package lock serializes updates of the generation state between bqddl
// processes with a PID file.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/reloquent/bqddl/internal/config"
)

const DefaultPath = "~/.bqddl/state.lock"

// ErrHeld is returned when another running process holds the lock.
var ErrHeld = errors.New("lock held by another process")

// Lock is an acquired lock file.
type Lock struct {
	path string
}

// Acquire writes the current PID to the lock file. A lock left behind by a
// process that is no longer running is taken over.
func Acquire(path string) (*Lock, error) {
	if path == "" {
		path = config.ExpandHome(DefaultPath)
	}

	held, pid, err := IsHeld(path)
	if err != nil {
		return nil, err
	}
	if held && pid != os.Getpid() {
		return nil, fmt.Errorf("%w (PID %d): another bqddl run is updating %s", ErrHeld, pid, filepath.Dir(path))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return nil, fmt.Errorf("writing lock file: %w", err)
	}
	return &Lock{path: path}, nil
}

// Release removes the lock file.
func (l *Lock) Release() error {
	err := os.Remove(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// IsHeld reports whether the lock file names a running process, and which.
func IsHeld(path string) (bool, int, error) {
	if path == "" {
		path = config.ExpandHome(DefaultPath)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("reading lock file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return false, 0, nil
	}
	return isProcessRunning(pid), pid, nil
}

func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
