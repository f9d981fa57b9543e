package pdftext

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// ExtractText pulls the plain text out of a PDF file. Used for the contact
// email sweep; the structuring service handles everything layout-aware.
func ExtractText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}
	return buf.String(), nil
}
