package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/paperdesk/prefill/internal/batch"
	"github.com/paperdesk/prefill/internal/common"
	"github.com/paperdesk/prefill/internal/grobid"
	"github.com/paperdesk/prefill/internal/ocr"
	"github.com/paperdesk/prefill/internal/pipeline"
	"github.com/paperdesk/prefill/internal/receipt"
)

// Drop-folder mode: scan a directory of papers and receipts, or keep
// watching it, and write a prefill record next to each file.
func main() {
	dir := flag.String("dir", "", "directory of papers and receipts")
	outDir := flag.String("out", "", "output directory (default: next to inputs)")
	watch := flag.Bool("watch", false, "keep watching the directory for new files")
	skipHidden := flag.Bool("skip-hidden", true, "skip hidden files and directories")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *dir == "" {
		logger.Error("usage", "cmd", "prefill-batch -dir <folder> [-watch] [-out <folder>]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

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
	runner := batch.NewRunner(processor, *outDir, logger)

	if !*watch {
		_, stats, err := runner.ScanDirectory(ctx, *dir, *skipHidden)
		logger.Info("batch.done",
			"scanned", stats.Scanned,
			"matched", stats.Matched,
			"succeeded", stats.Succeeded,
			"failed", stats.Failed,
		)
		if err != nil {
			logger.Error("scan failed", "error", err)
			os.Exit(1)
		}
		if stats.Failed > 0 {
			os.Exit(1)
		}
		return
	}

	evCh, errCh, err := batch.StartWatcher(ctx, batch.WatchConfig{
		Roots:       []string{*dir},
		InitialScan: true,
		Debounce:    500 * time.Millisecond,
	}, logger)
	if err != nil {
		logger.Error("start watcher", "error", err)
		os.Exit(1)
	}

	logger.Info("watching", "dir", *dir)
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down...")
			return
		case path, ok := <-evCh:
			if !ok {
				return
			}
			if _, perr := runner.Process(ctx, path); perr != nil {
				logger.Error("batch.process_failed", "path", path, "error", perr)
			}
		case werr, ok := <-errCh:
			if ok && werr != nil {
				logger.Error("watch error", "error", werr)
			}
		}
	}
}
