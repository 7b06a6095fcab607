package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// InstanceLock guards the microphone and speaker: only one Jarvis may run
// per data directory.
// Lock file: <data_dir>/jarvis.lock, content: PID of the owner.
type InstanceLock struct {
	path string
}

func NewInstanceLock(dataDir string) *InstanceLock {
	return &InstanceLock{path: filepath.Join(dataDir, "jarvis.lock")}
}

// Acquire writes our PID to the lock file (0600 - user-only access).
func (l *InstanceLock) Acquire() error {
	return os.WriteFile(l.path, []byte(fmt.Sprintf("%d", os.Getpid())), 0600)
}

// Release removes the lock file. A missing file is not an error.
func (l *InstanceLock) Release() error {
	err := os.Remove(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Check reports whether another process holds the lock, and its PID.
// Unreadable or stale lock files are cleaned up.
func (l *InstanceLock) Check() (bool, int, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to read lock file: %w", err)
	}

	var pid int
	if _, err := fmt.Sscanf(strings.TrimSpace(string(data)), "%d", &pid); err != nil {
		_ = os.Remove(l.path)
		return false, 0, nil
	}
	if pid == os.Getpid() {
		return false, pid, nil
	}

	// os.FindProcess always succeeds on Unix; this only catches Windows.
	if _, err := os.FindProcess(pid); err != nil {
		_ = os.Remove(l.path)
		return false, 0, nil
	}
	return true, pid, nil
}
