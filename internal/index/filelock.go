package index

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// ErrLockTimeout indicates lock acquisition timed out.
var ErrLockTimeout = errors.New("lock acquisition timed out")

// FileLock provides exclusive advisory locking using flock(2). It
// coordinates index writers across processes; the kernel releases the lock
// if the holder crashes.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a file lock at the given path. The lock file and its
// parent directories are created lazily on first acquisition.
func NewFileLock(path string) *FileLock {
	return &FileLock{path: path}
}

// TryLock attempts to acquire the exclusive lock without blocking. It
// returns false without error when another process holds the lock.
func (l *FileLock) TryLock() (bool, error) {
	if err := l.open(); err != nil {
		return false, err
	}

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = l.file.Close()
		l.file = nil
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return false, nil
		}
		return false, fmt.Errorf("flock failed: %w", err)
	}
	return true, nil
}

// Lock acquires the exclusive lock, polling with backoff until it is
// available or the timeout expires.
func (l *FileLock) Lock(timeout time.Duration) error {
	if err := l.open(); err != nil {
		return err
	}

	deadline := time.Now().Add(timeout)
	pollInterval := 10 * time.Millisecond
	const maxPollInterval = 500 * time.Millisecond

	for {
		err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			return nil
		}
		if !errors.Is(err, syscall.EWOULDBLOCK) {
			_ = l.file.Close()
			l.file = nil
			return fmt.Errorf("flock failed: %w", err)
		}
		if time.Now().After(deadline) {
			_ = l.file.Close()
			l.file = nil
			return ErrLockTimeout
		}
		time.Sleep(pollInterval)
		pollInterval = min(pollInterval*2, maxPollInterval)
	}
}

// Unlock releases the lock. Unlocking an unlocked FileLock is a no-op.
func (l *FileLock) Unlock() error {
	if l.file == nil {
		return nil
	}

	err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN)
	closeErr := l.file.Close()
	l.file = nil

	if err != nil {
		return fmt.Errorf("flock unlock failed: %w", err)
	}
	if closeErr != nil {
		return fmt.Errorf("close failed: %w", closeErr)
	}
	return nil
}

// IsLocked returns true if this instance currently holds the lock.
func (l *FileLock) IsLocked() bool {
	return l.file != nil
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

func (l *FileLock) open() error {
	if l.file != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return storagef("create lock directory: %v", err)
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return storagef("open lock file: %v", err)
	}
	l.file = file
	return nil
}
