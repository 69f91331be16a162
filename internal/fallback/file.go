package fallback

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/wolfman30/bridgeforms/internal/submission"
	"github.com/wolfman30/bridgeforms/pkg/logging"
)

const maxNameAttempts = 3

// FileRecorder writes one JSON file per failed submission under a root
// directory, split into per-kind subdirectories.
type FileRecorder struct {
	root   string
	now    func() time.Time
	open   func(path string) (recordFile, error)
	logger *logging.Logger
}

type recordFile interface {
	Write(p []byte) (int, error)
	Sync() error
	Close() error
}

func openExclusive(path string) (recordFile, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// NewFileRecorder creates a recorder rooted at dir. Subdirectories are
// created on first write.
func NewFileRecorder(dir string, logger *logging.Logger) *FileRecorder {
	if logger == nil {
		logger = logging.Default()
	}
	if dir == "" {
		dir = "."
	}
	return &FileRecorder{root: dir, now: time.Now, open: openExclusive, logger: logger}
}

// Record writes the document with O_EXCL so an existing record is never
// overwritten.
func (r *FileRecorder) Record(ctx context.Context, kind submission.Kind, formData any, cause error) (string, error) {
	l, err := layoutFor(kind)
	if err != nil {
		return "", storageError(err)
	}
	if err := ctx.Err(); err != nil {
		return "", storageError(err)
	}

	now := r.now()
	data, err := encodeRecord(now, formData, cause)
	if err != nil {
		return "", storageError(err)
	}

	dir := filepath.Join(r.root, l.dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", storageError(fmt.Errorf("fallback: create %s: %w", dir, err))
	}

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name, err := recordName(l.prefix, now)
		if err != nil {
			return "", storageError(err)
		}
		path := filepath.Join(dir, name)
		err = r.writeExclusive(path, data)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", storageError(fmt.Errorf("fallback: write %s: %w", path, err))
		}
		r.logger.Warn("submission saved to fallback store", "kind", kind, "record_id", name, "path", path)
		return name, nil
	}
	return "", storageError(fmt.Errorf("fallback: no free record name in %s", dir))
}

// writeExclusive leaves no file behind unless the whole document reached disk.
func (r *FileRecorder) writeExclusive(path string, data []byte) error {
	f, err := r.open(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

var _ Recorder = (*FileRecorder)(nil)
