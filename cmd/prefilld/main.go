package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/paperdesk/prefill/internal/common"
	"github.com/paperdesk/prefill/internal/export"
	"github.com/paperdesk/prefill/internal/grobid"
	"github.com/paperdesk/prefill/internal/ocr"
	"github.com/paperdesk/prefill/internal/pipeline"
	"github.com/paperdesk/prefill/internal/receipt"
	"github.com/paperdesk/prefill/internal/repository"
	"github.com/paperdesk/prefill/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		DSN:         cfg.Database.DSN,
		DialTimeout: cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("close db", "error", cerr)
		}
	}()

	if err := repository.Migrate(ctx, db); err != nil {
		logger.Error("migrate db", "error", err)
		os.Exit(1)
	}

	subs := repository.NewSubmissionRepository(db, logger)
	csvLog := export.NewCSVLogger(cfg.Export.CSVPath, logger)
	xlsx := export.NewService(subs, logger)

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

	srv := server.New(processor, subs, csvLog, xlsx, logger)
	httpSrv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
}
