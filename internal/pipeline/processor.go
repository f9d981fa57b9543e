package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/paperdesk/prefill/internal/common"
	"github.com/paperdesk/prefill/internal/pdftext"
	"github.com/paperdesk/prefill/internal/prefill"
	"github.com/paperdesk/prefill/internal/receipt"
	"github.com/paperdesk/prefill/internal/tei"
)

// Structurer is the external PDF structuring service (GROBID in production).
type Structurer interface {
	ProcessFulltext(ctx context.Context, filename string, pdf io.Reader) (string, error)
}

// ReceiptExtractor turns a receipt image into payment fields.
type ReceiptExtractor interface {
	Extract(ctx context.Context, path string) (receipt.PaymentFields, error)
}

// Processor runs the two extraction legs and merges their output into a
// single prefill record.
type Processor struct {
	structurer Structurer
	receipts   ReceiptExtractor
	logger     *slog.Logger
}

func NewProcessor(structurer Structurer, receipts ReceiptExtractor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{structurer: structurer, receipts: receipts, logger: logger}
}

// Prefill extracts from whichever inputs are present (empty path means the
// leg is skipped) and merges the results. Each leg is best-effort: a failed
// leg contributes empty fields and the record still comes back. An error is
// returned, alongside the partial record, only when every requested leg
// failed.
func (p *Processor) Prefill(ctx context.Context, paperPath, receiptPath string) (prefill.Record, error) {
	start := time.Now()

	var (
		meta   tei.ScholarlyMetadata
		pay    receipt.PaymentFields
		sweep  []string
		legs   int
		failed []error
	)

	if paperPath != "" {
		legs++
		m, emails, err := p.paperLeg(ctx, paperPath)
		if err != nil {
			p.logger.Error("prefill.paper_leg.failed", "path", paperPath, "error", err)
			failed = append(failed, fmt.Errorf("paper: %w", err))
		} else {
			meta = m
			sweep = emails
		}
	}

	if receiptPath != "" {
		legs++
		f, err := p.receipts.Extract(ctx, receiptPath)
		if err != nil {
			p.logger.Error("prefill.receipt_leg.failed", "path", receiptPath, "error", err)
			failed = append(failed, fmt.Errorf("receipt: %w", err))
		} else {
			pay = f
		}
	}

	rec := prefill.Merge(meta, pay, sweep)

	p.logger.Info("prefill.done",
		"req_id", common.RequestIDFromContext(ctx),
		"paper", paperPath != "",
		"receipt", receiptPath != "",
		"legs_failed", len(failed),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if legs > 0 && len(failed) == legs {
		return rec, errors.Join(failed...)
	}
	return rec, nil
}

// paperLeg structures the PDF, extracts scholarly metadata from the result,
// and sweeps the raw PDF text for contact emails. The sweep is strictly
// best-effort; a PDF the text library cannot read only loses extra emails.
func (p *Processor) paperLeg(ctx context.Context, path string) (tei.ScholarlyMetadata, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return tei.ScholarlyMetadata{}, nil, fmt.Errorf("open paper: %w", err)
	}
	defer func() { _ = f.Close() }()

	teiXML, err := p.structurer.ProcessFulltext(ctx, filepath.Base(path), f)
	if err != nil {
		return tei.ScholarlyMetadata{}, nil, fmt.Errorf("structure paper: %w", err)
	}

	meta, err := tei.Extract(teiXML)
	if err != nil {
		return tei.ScholarlyMetadata{}, nil, err
	}

	var emails []string
	if text, terr := pdftext.ExtractText(path); terr == nil {
		emails = tei.FindEmails(text)
	} else {
		p.logger.Debug("prefill.email_sweep.skipped", "path", path, "error", terr)
	}
	return meta, emails, nil
}
