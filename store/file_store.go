package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"
)

const (
	checksumSuffix = ".checksum"
	lockSuffix     = ".lock"
	tempSuffix     = ".tmp"

	// DefaultLockTimeout bounds how long Get and Set wait for the file lock.
	DefaultLockTimeout = 2 * time.Second
	lockRetryDelay     = 20 * time.Millisecond
)

// ErrLockTimeout is returned when another process holds the file lock for
// longer than the lock timeout.
var ErrLockTimeout = errors.New("timed out waiting for file lock")

// ErrChecksumMismatch is returned by Get when a value no longer matches the
// checksum written alongside it.
var ErrChecksumMismatch = errors.New("checksum mismatch")

// FileKV stores each key as <dir>/<key>.<ext> with a sha256 checksum sidecar.
// Writes go to a temporary file that is renamed over the target. On the real
// filesystem every operation holds an exclusive lock on <file>.lock.
type FileKV struct {
	fs          afero.Fs
	dir         string
	ext         string
	lockTimeout time.Duration
}

// NewFileKV creates a file backend rooted at dir. ext is the file extension
// without the dot (usually the codec format).
func NewFileKV(fsys afero.Fs, dir, ext string) (*FileKV, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if dir == "" {
		dir = "."
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return &FileKV{
		fs:          fsys,
		dir:         dir,
		ext:         strings.TrimPrefix(ext, "."),
		lockTimeout: DefaultLockTimeout,
	}, nil
}

// NewOsFileKV creates a FileKV on the operating system filesystem. Lock waits
// give up after lockTimeout; zero or less means DefaultLockTimeout.
func NewOsFileKV(dir, ext string, lockTimeout time.Duration) (*FileKV, error) {
	kv, err := NewFileKV(afero.NewOsFs(), dir, ext)
	if err != nil {
		return nil, err
	}
	if lockTimeout > 0 {
		kv.lockTimeout = lockTimeout
	}
	return kv, nil
}

// Path returns the data file path for key.
func (s *FileKV) Path(key string) string {
	name := key
	if s.ext != "" {
		name += "." + s.ext
	}
	return filepath.Join(s.dir, name)
}

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// lock takes the per-file lock. Locking only applies to the OS filesystem;
// in-memory filesystems are private to the process.
func (s *FileKV) lock(path string) (func(), error) {
	if _, ok := s.fs.(*afero.OsFs); !ok {
		return func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.lockTimeout)
	defer cancel()

	flk := flock.New(path + lockSuffix)
	locked, err := flk.TryLockContext(ctx, lockRetryDelay)
	if errors.Is(err, context.DeadlineExceeded) || (err == nil && !locked) {
		return nil, fmt.Errorf("%w on %s after %s", ErrLockTimeout, path, s.lockTimeout)
	}
	if err != nil {
		return nil, fmt.Errorf("could not lock %s: %w", path, err)
	}
	return func() { _ = flk.Unlock() }, nil
}

// Get reads the value for key and verifies its checksum when a sidecar exists.
// Files written before checksums existed load without verification.
func (s *FileKV) Get(key string) ([]byte, error) {
	path := s.Path(key)
	unlock, err := s.lock(path)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read data file %s: %w", path, err)
	}

	expected, err := afero.ReadFile(s.fs, path+checksumSuffix)
	switch {
	case err == nil:
		if actual := calculateChecksum(data); actual != strings.TrimSpace(string(expected)) {
			return nil, fmt.Errorf("%w for %s: file is corrupt or was edited by hand", ErrChecksumMismatch, path)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("error checking checksum file %s: %w", path+checksumSuffix, err)
	}

	return data, nil
}

// Set writes value and its checksum through temporary files and renames
// them into place, data file first.
func (s *FileKV) Set(key string, value []byte) error {
	path := s.Path(key)
	unlock, err := s.lock(path)
	if err != nil {
		return err
	}
	defer unlock()

	tempFilePath := path + tempSuffix
	checksumFilePath := path + checksumSuffix
	tempChecksumFilePath := checksumFilePath + tempSuffix

	defer func() { _ = s.fs.Remove(tempFilePath) }()
	defer func() { _ = s.fs.Remove(tempChecksumFilePath) }()

	if err := afero.WriteFile(s.fs, tempFilePath, value, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary data file %s: %w", tempFilePath, err)
	}
	if err := afero.WriteFile(s.fs, tempChecksumFilePath, []byte(calculateChecksum(value)), 0o644); err != nil {
		return fmt.Errorf("failed to write temporary checksum file %s: %w", tempChecksumFilePath, err)
	}
	if err := s.fs.Rename(tempFilePath, path); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", tempFilePath, path, err)
	}
	if err := s.fs.Rename(tempChecksumFilePath, checksumFilePath); err != nil {
		// The data file is already new; drop the stale checksum so the next
		// load does not reject good data.
		_ = s.fs.Remove(checksumFilePath)
		return fmt.Errorf("data file %s updated but checksum %s was not: %w", path, checksumFilePath, err)
	}
	return nil
}

// Close is a no-op; locks are released after every operation.
func (s *FileKV) Close() error {
	return nil
}

