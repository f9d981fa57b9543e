package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/paperdesk/prefill/internal/repository"
)

var csvHeader = []string{
	"ID", "Submitted At", "Title", "Authors", "Emails",
	"Transaction ID", "Amount", "Payment Method", "Payment Status",
}

// CSVLogger appends each finalized submission to a CSV file, one row per
// submission. The file doubles as a quick audit trail the organizers can
// open in a spreadsheet without touching the database.
type CSVLogger struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

func NewCSVLogger(path string, logger *slog.Logger) *CSVLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVLogger{path: path, logger: logger}
}

// Append writes one submission row, creating the file with a header row on
// first use.
func (l *CSVLogger) Append(sub repository.Submission) error {
	rec, err := sub.Decode()
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open csv log: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat csv log: %w", err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("write csv header: %w", err)
		}
	}

	row := []string{
		sub.ID,
		sub.CreatedAt.Format("2006-01-02 15:04:05"),
		rec.Title,
		strings.Join(rec.Authors, "; "),
		strings.Join(rec.Emails, "; "),
		rec.TransactionID,
		rec.Amount,
		rec.PaymentMethod,
		rec.PaymentStatus,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv log: %w", err)
	}

	l.logger.Debug("export.csv.appended", "id", sub.ID, "path", l.path)
	return nil
}
