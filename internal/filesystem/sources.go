package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"thumbgen/internal/logging"
	"thumbgen/internal/mediatypes"
	"thumbgen/internal/model"
)

// Collect reads every source named by paths. Directories are expanded one
// level to their image files; non-image directory entries are reported in
// skipped. Explicitly named files are always taken, whatever their
// extension, so a bad input still shows up as a per-item failure.
func Collect(paths []string, config RetryConfig) (items []model.SourceItem, skipped []string, err error) {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}

		if !info.IsDir() {
			item, err := readItem(p, config)
			if err != nil {
				return nil, nil, err
			}
			items = append(items, item)
			continue
		}

		files, rest, err := imageFiles(p, config)
		if err != nil {
			return nil, nil, err
		}
		skipped = append(skipped, rest...)
		for _, f := range files {
			item, err := readItem(f, config)
			if err != nil {
				return nil, nil, err
			}
			items = append(items, item)
		}
	}

	logging.Debug("Collected %d sources, skipped %d entries", len(items), len(skipped))
	return items, skipped, nil
}

// imageFiles lists the image files directly inside dir, in name order.
func imageFiles(dir string, config RetryConfig) (images, skipped []string, err error) {
	entries, err := ReadDirWithRetry(dir, config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		p := filepath.Join(dir, e.Name())
		if e.IsDir() || !mediatypes.IsImageFile(e.Name()) {
			skipped = append(skipped, p)
			continue
		}
		images = append(images, p)
	}
	return images, skipped, nil
}

func readItem(path string, config RetryConfig) (model.SourceItem, error) {
	data, err := ReadFileWithRetry(path, config)
	if err != nil {
		return model.SourceItem{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return model.NewSourceItem(filepath.Base(path), data), nil
}
