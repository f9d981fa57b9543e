package prefill

import (
	"sort"

	"github.com/paperdesk/prefill/internal/receipt"
	"github.com/paperdesk/prefill/internal/tei"
)

// Record is the merged form-prefill record: scholarly metadata from the
// paper plus payment fields from the receipt, flattened to the shape the
// submission form consumes. Every value is best-effort; a human reviews and
// can correct each field before the submission is finalized.
type Record struct {
	Title           string   `json:"title"`
	Authors         []string `json:"authors"`
	Abstract        string   `json:"abstract"`
	Keywords        []string `json:"keywords"`
	Affiliations    []string `json:"affiliations"`
	Emails          []string `json:"emails"`
	PublicationDate string   `json:"publication_date"`
	BodyPreview     string   `json:"body_preview"`

	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	PaymentDate   string `json:"payment_date"`
	PaymentTime   string `json:"payment_time"`
	PaymentMethod string `json:"payment_method"`
	PaymentStatus string `json:"payment_status"`
	UPIID         string `json:"upi_id"`
	BankName      string `json:"bank_name"`
}

// Merge combines the two extractor records into a prefill Record. Extra
// emails (from the full-text sweep) are unioned with the author emails into
// a sorted set. Slice fields are always non-nil so the record serializes to
// arrays, not nulls.
func Merge(meta tei.ScholarlyMetadata, pay receipt.PaymentFields, extraEmails []string) Record {
	emailSet := map[string]struct{}{}
	for _, e := range meta.Emails {
		emailSet[e] = struct{}{}
	}
	for _, e := range extraEmails {
		if e != "" {
			emailSet[e] = struct{}{}
		}
	}
	emails := make([]string, 0, len(emailSet))
	for e := range emailSet {
		emails = append(emails, e)
	}
	sort.Strings(emails)

	return Record{
		Title:           meta.Title,
		Authors:         orEmpty(meta.Authors),
		Abstract:        meta.Abstract,
		Keywords:        orEmpty(meta.Keywords),
		Affiliations:    orEmpty(meta.Affiliations),
		Emails:          emails,
		PublicationDate: meta.PublicationDate,
		BodyPreview:     meta.BodyPreview,

		TransactionID: pay.TransactionID,
		Amount:        pay.Amount,
		PaymentDate:   pay.Date,
		PaymentTime:   pay.Time,
		PaymentMethod: pay.PaymentMethod,
		PaymentStatus: pay.Status,
		UPIID:         pay.UPIID,
		BankName:      pay.BankName,
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
