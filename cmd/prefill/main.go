package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/paperdesk/prefill/internal/common"
	"github.com/paperdesk/prefill/internal/grobid"
	"github.com/paperdesk/prefill/internal/ocr"
	"github.com/paperdesk/prefill/internal/pipeline"
	"github.com/paperdesk/prefill/internal/receipt"
)

// One-shot extraction: run the pipeline over local files and print the
// prefill record as JSON. Useful for debugging regressions on a single
// receipt without standing up the daemon.
func main() {
	paperPath := flag.String("paper", "", "path to a paper PDF")
	receiptPath := flag.String("receipt", "", "path to a receipt image (jpg/png)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *paperPath == "" && *receiptPath == "" {
		fmt.Fprintln(os.Stderr, "usage: prefill [-paper file.pdf] [-receipt file.jpg]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	structurer := grobid.NewClient(cfg.Grobid.URL, cfg.Grobid.Timeout, logger)
	pooler := ocr.NewExtractor(ocr.Config{
		Tesseract:        cfg.OCR.Tesseract,
		Lang:             cfg.OCR.Lang,
		TessdataDir:      cfg.OCR.TessdataDir,
		OEM:              cfg.OCR.OEM,
		ArtifactCacheDir: cfg.OCR.ArtifactCacheDir,
	}, logger)
	receipts := receipt.NewExtractor(pooler, logger)
	processor := pipeline.NewProcessor(structurer, receipts, logger)

	rec, err := processor.Prefill(ctx, *paperPath, *receiptPath)
	if err != nil {
		logger.Error("prefill failed", "error", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		logger.Error("marshal record", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
