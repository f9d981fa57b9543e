package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/paperdesk/prefill/internal/repository"
)

// Service produces XLSX bytes over the stored submissions.
type Service struct {
	subs   *repository.SubmissionRepository
	logger *slog.Logger
}

func NewService(subs *repository.SubmissionRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{subs: subs, logger: logger}
}

// ExportSubmissionsXLSX returns an XLSX workbook (as bytes) containing every
// stored submission, newest first.
func (s *Service) ExportSubmissionsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	subs, err := s.subs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("query submissions: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Submissions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Submitted At",
		"Title",
		"Authors",
		"Emails",
		"Transaction ID",
		"Amount",
		"Payment Date",
		"Payment Method",
		"Payment Status",
		"Bank",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, sub := range subs {
		rec, err := sub.Decode()
		if err != nil {
			s.logger.Warn("export.xlsx.skip_row", "id", sub.ID, "error", err)
			continue
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, sub.CreatedAt.Format("2006-01-02 15:04"))
		write(2, truncate(rec.Title, 140))
		write(3, strings.Join(rec.Authors, "; "))
		write(4, strings.Join(rec.Emails, "; "))
		write(5, rec.TransactionID)
		write(6, rec.Amount)
		write(7, rec.PaymentDate)
		write(8, rec.PaymentMethod)
		write(9, rec.PaymentStatus)
		write(10, rec.BankName)

		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 18) // timestamp
	_ = f.SetColWidth(sheet, "B", "B", 48) // title
	_ = f.SetColWidth(sheet, "C", "D", 36) // authors, emails
	_ = f.SetColWidth(sheet, "E", "E", 26) // transaction id
	_ = f.SetColWidth(sheet, "F", "J", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(subs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
