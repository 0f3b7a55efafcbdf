package snapshot

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// ErrCancelled is returned by calls subsequent to Cancel()
var ErrCancelled = errors.New("snapshot: cancelled")

var _ io.WriteCloser = &AtomicFile{}

// AtomicFile writes to a temp file in the destination directory and
// renames it over the destination on Close. If any write fails, the
// temp file is removed and the destination is left untouched.
type AtomicFile struct {
	dstPath string
	dir     string
	tmpFile *os.File
	tmpPath string
	err     error
}

// NewAtomicFile creates the temp file for dstPath
func NewAtomicFile(dstPath string) (*AtomicFile, error) {
	dir, fName := filepath.Split(dstPath)
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if fName == "" {
		return nil, &os.PathError{Op: "open", Path: dstPath, Err: os.ErrInvalid}
	}
	tmpFile, err := os.CreateTemp(dir, fName)
	if err != nil {
		return nil, err
	}
	return &AtomicFile{
		dstPath: dstPath,
		dir:     dir,
		tmpFile: tmpFile,
		tmpPath: tmpFile.Name(),
	}, nil
}

// remembers the first error and cleans up
func (f *AtomicFile) handleError(err error) error {
	if err == nil {
		return nil
	}
	if f.err == nil {
		f.err = err
	}
	_ = f.Close()
	return err
}

func (f *AtomicFile) Write(d []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.tmpFile == nil {
		return 0, os.ErrClosed
	}
	n, err := f.tmpFile.Write(d)
	return n, f.handleError(err)
}

// Cancel removes the temp file unless already closed.
// Use with defer to clean up after an early return or a panic.
func (f *AtomicFile) Cancel() {
	if f == nil || f.tmpFile == nil {
		return
	}
	f.err = ErrCancelled
	_ = f.Close()
}

// Close syncs and renames the temp file to the destination.
// Can be called multiple times, returns the first error.
func (f *AtomicFile) Close() error {
	if f.tmpFile == nil {
		return f.err
	}
	tmpFile := f.tmpFile
	f.tmpFile = nil

	errSync := tmpFile.Sync()
	errClose := tmpFile.Close()

	didRename := false
	defer func() {
		if !didRename {
			_ = os.Remove(f.tmpPath)
		}
	}()

	if f.err != nil {
		return f.err
	}
	err := errSync
	if err == nil {
		err = errClose
	}
	if err == nil {
		err = os.Rename(f.tmpPath, f.dstPath)
		didRename = err == nil
		// sync directory after rename, best effort
		if fdir, _ := os.Open(f.dir); fdir != nil {
			_ = fdir.Sync()
			_ = fdir.Close()
		}
	}
	f.err = err
	return f.err
}

// WriteFileAtomically writes d to path so that path either has the old
// content or all of d. Missing directories are created.
func WriteFileAtomically(path string, d []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := NewAtomicFile(path)
	if err != nil {
		return err
	}
	defer f.Cancel()
	if _, err = f.Write(d); err != nil {
		return err
	}
	return f.Close()
}
