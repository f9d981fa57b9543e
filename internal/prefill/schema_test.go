package prefill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdesk/prefill/internal/common"
	"github.com/paperdesk/prefill/internal/receipt"
	"github.com/paperdesk/prefill/internal/tei"
)

func validRecord() Record {
	return Merge(
		tei.ScholarlyMetadata{
			Title:   "A Title",
			Authors: []string{"Asha Patel"},
		},
		receipt.PaymentFields{
			TransactionID: "AXI12345678",
			Amount:        "2500.00",
		},
		nil,
	)
}

func TestValidateSubmission(t *testing.T) {
	require.NoError(t, ValidateSubmission(validRecord()))
}

func TestValidateSubmissionMissingTitle(t *testing.T) {
	rec := validRecord()
	rec.Title = ""
	err := ValidateSubmission(rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestValidateSubmissionBadFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Record)
	}{
		{"no authors", func(r *Record) { r.Authors = []string{} }},
		{"short transaction id", func(r *Record) { r.TransactionID = "AB12" }},
		{"transaction id with punctuation", func(r *Record) { r.TransactionID = "ABC-12345678" }},
		{"amount with currency symbol", func(r *Record) { r.Amount = "₹2500.00" }},
		{"amount with too many decimals", func(r *Record) { r.Amount = "2500.001" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)
			assert.Error(t, ValidateSubmission(rec), tt.name)
		})
	}
}

func TestValidateSubmissionJSONRejectsUnknownFields(t *testing.T) {
	assert.Error(t, ValidateSubmissionJSON([]byte(`{"title":"x","surprise":true}`)))
}

func TestValidateSubmissionJSONRejectsGarbage(t *testing.T) {
	assert.Error(t, ValidateSubmissionJSON([]byte(`{not json`)))
}
