package ocr

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/paperdesk/prefill/internal/common"
)

// Tesseract page segmentation modes used across passes. Receipts defeat any
// single layout assumption: app screenshots read best as a uniform block,
// while sparse and single-column modes recover text the block mode drops.
const (
	psmBlock        = 6
	psmSingleColumn = 4
	psmSparse       = 11
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Lang        string // default "eng"
	TessdataDir string
	OEM         int // 3 = default engine; passed straight to tesseract

	ArtifactCacheDir string // scratch dir for preprocessed variants; "" -> system temp
}

// Extractor runs a receipt image through several preprocessing variants and
// OCR modes and pools every recovered text hypothesis.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	return NewExtractorWithRunner(cfg, newCmdRunner(logger), logger)
}

// NewExtractorWithRunner injects a Runner; tests use it to stub tesseract.
func NewExtractorWithRunner(cfg Config, r Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if cfg.OEM <= 0 {
		cfg.OEM = 3
	}
	return &Extractor{cfg: cfg, runner: r, logger: logger}
}

// pass is one OCR invocation: a preprocessed image variant plus a page
// segmentation mode.
type pass struct {
	variant string
	psm     int
	path    string
}

// Pooled OCRs the image under every preprocessing variant and layout mode
// and concatenates all recovered text. No single "best" pass is picked:
// different passes surface different fields, and pattern-matching priority
// downstream decides the winner, not pass order. Per-pass engine failures
// contribute no text and are reported as warnings; only an image that cannot
// be decoded at all is an error.
func (e *Extractor) Pooled(ctx context.Context, path string) (string, []string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: %v", common.ErrImageDecode, filepath.Base(path), err)
	}

	tmpDir, err := os.MkdirTemp(e.cfg.ArtifactCacheDir, "prefill-ocr-*")
	if err != nil {
		return "", nil, fmt.Errorf("ocr scratch dir: %w", err)
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			e.logger.Warn("ocr.scratch.cleanup_failed", "dir", tmpDir, "error", rerr)
		}
	}()

	passes, warnings := e.buildPasses(img, tmpDir)

	var texts []string
	for _, p := range passes {
		txt, perr := e.tesseract(ctx, p.path, p.psm)
		if perr != nil {
			warnings = append(warnings, fmt.Sprintf("%s/psm%d: %v", p.variant, p.psm, perr))
			e.logger.Warn("ocr.pass.failed", "variant", p.variant, "psm", p.psm, "error", perr)
			continue
		}
		texts = append(texts, txt)
	}

	pooled := strings.Join(texts, "\n\n")
	e.logger.Debug("ocr.pooled",
		"passes", len(passes),
		"failed", len(warnings),
		"bytes", len(pooled),
	)
	return pooled, warnings, nil
}

// buildPasses writes every preprocessing variant to the scratch dir and
// schedules its OCR passes. A variant that fails to save is skipped with a
// warning; the remaining variants still run.
func (e *Extractor) buildPasses(img image.Image, dir string) ([]pass, []string) {
	var passes []pass
	var warnings []string

	add := func(name string, m image.Image, psms ...int) {
		p := filepath.Join(dir, name+".png")
		if err := imaging.Save(m, p); err != nil {
			warnings = append(warnings, fmt.Sprintf("save %s: %v", name, err))
			e.logger.Warn("ocr.variant.save_failed", "variant", name, "error", err)
			return
		}
		for _, psm := range psms {
			passes = append(passes, pass{variant: name, psm: psm, path: p})
		}
	}

	// Contrast- and sharpness-boosted variant, read under three layout modes.
	enhanced := imaging.Sharpen(imaging.AdjustContrast(img, 60), 2.0)
	add("enhanced", enhanced, psmBlock, psmSparse, psmSingleColumn)

	// Classical grayscale variants, one layout mode each.
	gray := toGray(img)
	add("adaptive", adaptiveThreshold(gray, 5, 2), psmBlock)
	add("otsu", otsuThreshold(gray), psmBlock)
	add("equalized", equalizeHistogram(gray), psmBlock)
	add("denoised", otsuThreshold(medianFilter(gray)), psmBlock)

	return passes, warnings
}

func (e *Extractor) tesseract(ctx context.Context, path string, psm int) (string, error) {
	args := []string{
		path, "stdout",
		"-l", e.cfg.Lang,
		"--oem", strconv.Itoa(e.cfg.OEM),
		"--psm", strconv.Itoa(psm),
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w: %s", err, truncate(string(errb), 512))
	}
	return string(out), nil
}
