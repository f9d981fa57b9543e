package receipt

import (
	"context"
	"log/slog"

	"github.com/paperdesk/prefill/internal/ocr"
)

const (
	// minPooledChars is the "OCR found effectively nothing" threshold: below
	// it the field cascade is skipped and only RawText is filled.
	minPooledChars = 20
	// rawTextMaxChars caps the diagnostic dump on the record.
	rawTextMaxChars = 1000
)

// TextPooler is the multi-pass OCR stage the extractor depends on.
type TextPooler interface {
	Pooled(ctx context.Context, path string) (text string, warnings []string, err error)
}

// Extractor turns a receipt image into a PaymentFields record: multi-pass
// OCR pooling, then the pattern cascade.
type Extractor struct {
	pooler TextPooler
	logger *slog.Logger
}

func NewExtractor(pooler TextPooler, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{pooler: pooler, logger: logger}
}

// Extract OCRs the image at path and resolves the payment fields. The only
// error is an undecodable image; "field not found" is a state, not an
// error, and each field independently defaults to empty.
func (e *Extractor) Extract(ctx context.Context, path string) (PaymentFields, error) {
	pooled, warnings, err := e.pooler.Pooled(ctx, path)
	if err != nil {
		return PaymentFields{}, err
	}
	for _, w := range warnings {
		e.logger.Debug("receipt.ocr.pass_warning", "warning", w)
	}

	pooled = ocr.Normalize(pooled)
	if len(pooled) < minPooledChars {
		e.logger.Warn("receipt.ocr.insufficient_text", "path", path, "bytes", len(pooled))
		return PaymentFields{RawText: truncate(pooled, rawTextMaxChars)}, nil
	}

	f := ExtractFields(pooled)
	f.RawText = truncate(pooled, rawTextMaxChars)

	e.logger.Info("receipt.extract.ok",
		"path", path,
		"transaction_id_found", f.TransactionID != "",
		"amount_found", f.Amount != "",
		"method", f.PaymentMethod,
	)
	return f, nil
}

// truncate cuts on rune boundaries so currency symbols survive the cap.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
