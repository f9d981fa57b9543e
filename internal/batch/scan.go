package batch

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

// FileResult records the outcome for one scanned file.
type FileResult struct {
	Path   string
	Output string
	Err    string
}

// DirStats aggregates a directory scan.
type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Failed    uint32
}

// ScanDirectory walks root, skips hidden entries if requested, and processes
// every supported file. It returns per-file results plus aggregate stats;
// individual failures never stop the walk.
func (r *Runner) ScanDirectory(ctx context.Context, root string, skipHidden bool) ([]FileResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []FileResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		stats.Scanned++
		if walkErr != nil {
			results = append(results, FileResult{Path: path, Err: walkErr.Error()})
			stats.Failed++
			return nil
		}
		if skipHidden && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		processed, perr := r.Process(ctx, path)
		if !processed && perr == nil {
			return nil
		}
		stats.Matched++
		if perr != nil {
			results = append(results, FileResult{Path: path, Err: perr.Error()})
			stats.Failed++
			return nil
		}
		stats.Succeeded++
		results = append(results, FileResult{Path: path, Output: r.outputPath(path)})
		return nil
	})
	if err != nil {
		return results, stats, err
	}
	return results, stats, nil
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}
