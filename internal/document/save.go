package document

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Names of the files Save creates next to the output while writing.
const (
	TempPrefix = ".codedocx-"
	LockSuffix = ".lock"
)

// Save writes the document to path. The bytes go to a temporary file in the
// same directory which is renamed over path once complete, so an existing
// file is either fully replaced or left untouched. A lock file next to path
// keeps two runs from writing the same output at once.
func (d *Document) Save(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", dir, err)
	}

	lockPath := path + LockSuffix
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", lockPath, err)
	}
	if !locked {
		return fmt.Errorf("output %s is being written by another process", path)
	}
	defer func() {
		lock.Unlock()
		os.Remove(lockPath)
	}()

	tmp, err := os.CreateTemp(dir, TempPrefix+"*.docx")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err = d.WriteTo(tmp); err != nil {
		return err
	}
	if err = tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename %s to %s: %w", tmpPath, path, err)
	}
	return nil
}
