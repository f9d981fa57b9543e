package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/paperdesk/prefill/constants"
	"github.com/paperdesk/prefill/internal/prefill"
)

// Prefiller runs the extraction pipeline over local files.
type Prefiller interface {
	Prefill(ctx context.Context, paperPath, receiptPath string) (prefill.Record, error)
}

// Runner processes dropped files one at a time: papers go through the
// structuring leg, receipt images through the OCR leg, and the resulting
// record lands next to the input as <name>.prefill.json.
type Runner struct {
	pre    Prefiller
	outDir string
	logger *slog.Logger
}

// NewRunner builds a Runner. outDir may be empty, in which case records are
// written next to their inputs.
func NewRunner(pre Prefiller, outDir string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{pre: pre, outDir: outDir, logger: logger}
}

// Process extracts from one file and writes the record JSON. Unsupported
// extensions are skipped without error.
func (r *Runner) Process(ctx context.Context, path string) (bool, error) {
	format := constants.MapExtToFormat(filepath.Ext(path))
	if format == "" {
		return false, nil
	}

	var paperPath, receiptPath string
	switch format {
	case constants.PDF:
		paperPath = path
	case constants.IMAGE:
		receiptPath = path
	}

	rec, err := r.pre.Prefill(ctx, paperPath, receiptPath)
	if err != nil {
		return false, fmt.Errorf("prefill %s: %w", path, err)
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return false, fmt.Errorf("marshal record: %w", err)
	}

	dest := r.outputPath(path)
	if err := os.WriteFile(dest, out, 0o644); err != nil {
		return false, fmt.Errorf("write record: %w", err)
	}

	r.logger.Info("batch.processed", "input", path, "output", dest, "format", string(format))
	return true, nil
}

func (r *Runner) outputPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".prefill.json"
	if r.outDir != "" {
		return filepath.Join(r.outDir, base)
	}
	return filepath.Join(filepath.Dir(path), base)
}
