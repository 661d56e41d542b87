package render

import (
	"io/fs"
	"os"
	"path/filepath"

	ferrors "git.home.luguber.info/inful/dokumentor/internal/foundation/errors"
	"git.home.luguber.info/inful/dokumentor/internal/logfields"
)

// FileRenderer writes the synchronized document to the destination.
type FileRenderer struct {
	session
}

// NewFileRenderer returns a renderer that writes files.
func NewFileRenderer(opts ...Option) *FileRenderer {
	return &FileRenderer{session: newSession(opts)}
}

// Finalize writes the document atomically when it changed. The returned
// string is always empty.
func (r *FileRenderer) Finalize() (string, error) {
	out, err := r.render()
	if err != nil {
		return "", err
	}
	if !r.changed {
		r.logger.Debug("Destination up to date", logfields.Destination(r.destination))
		return "", nil
	}
	if err := writeAtomic(r.destination, out.Bytes(), r.mode); err != nil {
		return "", ferrors.FileSystemError("failed to write destination").
			WithCause(err).
			WithContext("destination", r.destination).
			Build()
	}
	r.logger.Info("Wrote destination", logfields.Destination(r.destination), logfields.Changed(true))
	return "", nil
}

// writeAtomic replaces path through a temporary file in the same directory,
// so readers see either the old or the new content.
func writeAtomic(path string, data []byte, mode fs.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpPath, mode); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
