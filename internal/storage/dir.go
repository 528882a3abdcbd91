package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"thumbgen/internal/batch"
	"thumbgen/internal/logging"
	"thumbgen/internal/ziparchive"
)

// DirSink writes outcomes under a local directory.
type DirSink struct {
	dir         string
	archiveName string
	writeFiles  bool
}

// NewDirSink returns a sink writing <dir>/<archiveName>. With writeFiles the
// manifest and every thumbnail are also written loose under dir.
func NewDirSink(dir, archiveName string, writeFiles bool) *DirSink {
	return &DirSink{dir: dir, archiveName: archiveName, writeFiles: writeFiles}
}

// Name implements Sink.
func (s *DirSink) Name() string { return "dir" }

// Save implements Sink. The archive is streamed to a temporary file and
// renamed into place.
func (s *DirSink) Save(ctx context.Context, outcome *batch.Outcome) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	target := filepath.Join(s.dir, s.archiveName)
	if err := s.writeArchive(target, outcome); err != nil {
		return "", err
	}

	if s.writeFiles {
		for _, f := range outcome.Files {
			if err := ctx.Err(); err != nil {
				return target, err
			}
			if err := s.writeFile(f.Path, f.Data); err != nil {
				return target, err
			}
		}
		logging.Debug("Wrote %d loose files under %s", len(outcome.Files), s.dir)
	}

	return target, nil
}

func (s *DirSink) writeArchive(target string, outcome *batch.Outcome) (err error) {
	tmp, err := os.CreateTemp(s.dir, ".thumbgen-*.zip.tmp")
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			if rmErr := os.Remove(tmp.Name()); rmErr != nil && !os.IsNotExist(rmErr) {
				logging.Warn("failed to remove temp archive %s: %v", tmp.Name(), rmErr)
			}
		}
	}()

	zw := ziparchive.NewWriter(tmp)
	for _, f := range outcome.Files {
		if err = zw.Add(f.Path, f.Data); err != nil {
			return err
		}
	}
	if err = zw.Close(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}
	if err = os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to move archive into place: %w", err)
	}
	return nil
}

func (s *DirSink) writeFile(rel string, data []byte) error {
	if !filepath.IsLocal(rel) {
		return fmt.Errorf("%w: %q", ErrUnsafePath, rel)
	}
	p := filepath.Join(s.dir, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(p), err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return nil
}
