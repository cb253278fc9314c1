package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	tserrors "github.com/yacobolo/themesync/pkg/errors"
)

const defaultFileMode os.FileMode = 0o644

// PatchFunc transforms the current content of a file. A missing file is
// passed as "".
type PatchFunc func(css string) (string, error)

// FileResult describes one patched file
type FileResult struct {
	File    string `json:"file"`
	Changed bool   `json:"changed"`
	Backup  string `json:"backup,omitempty"`
	Before  string `json:"-"`
	After   string `json:"-"`
}

// Write patches one file of theme id. The file's lock is held from the read
// through the write, so concurrent writers to the same path serialize. The
// theme must be active, and a Switch waits for writes already past that
// check. An unchanged result writes nothing.
func (r *Registry) Write(id, path string, patch PatchFunc) (*FileResult, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, tserrors.NewIOError("resolve", path, "", err)
	}

	r.active.RLock()
	defer r.active.RUnlock()

	unlock := r.lock(path)
	defer unlock()

	if err := r.CheckWritable(id); err != nil {
		return nil, err
	}
	return r.patchLocked(path, patch, true)
}

// Preview runs patch against the current content without writing
func (r *Registry) Preview(path string, patch PatchFunc) (*FileResult, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, tserrors.NewIOError("resolve", path, "", err)
	}

	unlock := r.lock(path)
	defer unlock()

	return r.patchLocked(path, patch, false)
}

// update patches a file outside any theme, such as the global stylesheet
func (r *Registry) update(path string, patch PatchFunc) (*FileResult, error) {
	unlock := r.lock(path)
	defer unlock()

	return r.patchLocked(path, patch, true)
}

func (r *Registry) patchLocked(path string, patch PatchFunc, write bool) (*FileResult, error) {
	before, perm, exists, err := readFile(path)
	if err != nil {
		return nil, tserrors.NewIOError("read", path, "", err)
	}

	after, err := patch(before)
	if err != nil {
		return nil, err
	}

	result := &FileResult{File: path, Before: before, After: after, Changed: after != before}
	if !result.Changed || !write {
		return result, nil
	}

	if exists {
		backup, err := r.backup(path, []byte(before), perm)
		if err != nil {
			// Best effort: a failed backup never blocks the write
			r.log.Warn("backup failed", map[string]any{"file": path, "error": err.Error()})
		} else {
			result.Backup = backup
		}
	}

	if err := writeFileAtomic(path, []byte(after), perm); err != nil {
		return nil, tserrors.NewIOError("write", path, result.Backup, err)
	}

	r.log.Debug("wrote file", map[string]any{"file": path, "backup": result.Backup})
	return result, nil
}

// lock acquires the mutex of an absolute path and returns its release
func (r *Registry) lock(path string) func() {
	v, _ := r.locks.LoadOrStore(path, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func readFile(path string) (string, os.FileMode, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", defaultFileMode, false, nil
		}
		return "", 0, false, err
	}

	// #nosec G304 - path comes from the registry
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, false, err
	}
	return string(data), info.Mode().Perm(), true, nil
}

// BackupPath returns the backup slot of a file: ".<name>.backup" beside it
func BackupPath(path string) string {
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".backup")
}

// backup stores content in the backup slot. With a history larger than one
// the previous slots rotate to ".backup.1" .. ".backup.N-1" first.
func (r *Registry) backup(path string, content []byte, perm os.FileMode) (string, error) {
	slot := BackupPath(path)

	if keep := r.cfg.BackupHistory; keep > 1 {
		for i := keep - 1; i >= 1; i-- {
			from := slot
			if i > 1 {
				from = fmt.Sprintf("%s.%d", slot, i-1)
			}
			to := fmt.Sprintf("%s.%d", slot, i)
			if err := os.Rename(from, to); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return "", err
			}
		}
	}

	if err := os.WriteFile(slot, content, perm); err != nil {
		return "", err
	}
	return slot, nil
}

// writeFileAtomic writes through a temp file in the same directory and
// renames it over path
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".themesync-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return err
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return err
	}
	return nil
}
