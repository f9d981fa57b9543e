package receipt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/paperdesk/prefill/constants"
)

// PaymentFields is the record extracted from a payment receipt. Every field
// is independently optional: "" means not found, and a miss on one field
// never blocks extraction of the others. RawText carries a truncated dump of
// the pooled OCR text for diagnostics and manual fallback.
type PaymentFields struct {
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	PaymentMethod string `json:"payment_method"`
	Status        string `json:"status"`
	UPIID         string `json:"upi_id"`
	BankName      string `json:"bank_name"`
	RawText       string `json:"raw_text"`
}

const (
	// amountMin/amountMax bound plausible receipt amounts in rupees.
	amountMin = 1
	amountMax = 10_000_000
)

// Transaction-ID pattern tiers, strongest first. Every candidate still has
// to clear ValidTransactionID before it is accepted; a failed candidate
// falls through to the next tier instead of giving up.
var txnIDTiers = []*regexp.Regexp{
	// Explicit labels.
	regexp.MustCompile(`(?:TRANSACTION|TXN|TRANS)\s*(?:ID|NO|NUMBER|REF)[:\s]*([A-Z0-9]{8,30})`),
	regexp.MustCompile(`(?:UTR|UPI\s*REF)[:\s]*([A-Z0-9]{10,25})`),
	regexp.MustCompile(`(?:ORDER|PAYMENT|RECEIPT)\s*(?:ID|NO)[:\s]*([A-Z0-9]{10,30})`),
	regexp.MustCompile(`(?:REF(?:ERENCE)?)\s*(?:NO|NUMBER)[:\s]*([A-Z0-9]{10,30})`),
	// PhonePe-style shape: single letter T then 20-25 digits.
	regexp.MustCompile(`\b(T\d{20,25})\b`),
	// Bare numeric run.
	regexp.MustCompile(`\b(\d{12,20})\b`),
	// Bare alphanumeric run.
	regexp.MustCompile(`\b([A-Z0-9]{16,25})\b`),
	// Last resort: any alphanumeric run.
	regexp.MustCompile(`\b([A-Z0-9]{10,30})\b`),
}

// Amount patterns, labeled and currency-marked forms before the bare
// decimal fallback.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:PAID|AMOUNT|AMT|TOTAL)[:\s]*[₹RS.\s]*([0-9,]+\.?[0-9]{0,2})`),
	regexp.MustCompile(`[₹₨]\s*([0-9,]+\.?[0-9]{0,2})`),
	regexp.MustCompile(`RS\.?\s*([0-9,]+\.?[0-9]{0,2})`),
	regexp.MustCompile(`INR\s*([0-9,]+\.?[0-9]{0,2})`),
	regexp.MustCompile(`\b([0-9,]{1,6}\.[0-9]{2})\b`),
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}\s+(?:JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)[A-Z]*\s+\d{2,4})\b`),
	regexp.MustCompile(`\b(\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4})\b`),
	regexp.MustCompile(`\b(\d{4}[-/.]\d{1,2}[-/.]\d{1,2})\b`),
}

var reTime = regexp.MustCompile(`(\d{1,2}:\d{2}(?::\d{2})?\s*(?:AM|PM)?)`)

// UPI handles are matched against original-case text; the local part of a
// collect handle is case-sensitive in practice.
var reUPI = regexp.MustCompile(`\b([a-zA-Z0-9._-]{3,}@[a-zA-Z]{3,})\b`)

// consumerMailDomains are incidental author emails, not payment handles.
var consumerMailDomains = map[string]struct{}{
	"gmail":   {},
	"yahoo":   {},
	"outlook": {},
	"hotmail": {},
}

// ExtractFields applies the ordered pattern cascades to pooled OCR text and
// resolves each payment field independently. Matching is effectively
// case-insensitive (the text is uppercased first); only the UPI handle is
// matched against the original-case text. RawText is left for the caller.
func ExtractFields(text string) PaymentFields {
	var f PaymentFields
	if text == "" {
		return f
	}

	upper := strings.ToUpper(text)

	f.TransactionID = extractTransactionID(upper)
	f.Amount = extractAmount(upper)
	f.Date = firstPatternMatch(upper, datePatterns)
	f.Time = firstPatternMatch(upper, []*regexp.Regexp{reTime})
	f.UPIID = extractUPI(text)
	f.PaymentMethod = keywordLookup(upper, constants.PaymentMethodKeywords)
	f.Status = keywordLookup(upper, constants.StatusKeywords)
	f.BankName = keywordLookup(upper, constants.BankNameKeywords)
	return f
}

// extractTransactionID walks the pattern tiers in priority order and returns
// the first candidate that survives the validation gate.
func extractTransactionID(upper string) string {
	for _, re := range txnIDTiers {
		for _, m := range re.FindAllStringSubmatch(upper, -1) {
			if candidate := strings.TrimSpace(m[1]); ValidTransactionID(candidate) {
				return candidate
			}
		}
	}
	return ""
}

// extractAmount tries each pattern's first hit and accepts it only if the
// parsed value is plausible for a receipt; otherwise the next pattern runs.
func extractAmount(upper string) string {
	for _, re := range amountPatterns {
		m := re.FindStringSubmatch(upper)
		if m == nil {
			continue
		}
		raw := strings.TrimSpace(strings.ReplaceAll(m[1], ",", ""))
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if v >= amountMin && v <= amountMax {
			return raw
		}
	}
	return ""
}

func extractUPI(text string) string {
	m := reUPI.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	handle := strings.ToLower(m[1])
	domain := handle[strings.LastIndex(handle, "@")+1:]
	if _, consumer := consumerMailDomains[domain]; consumer {
		return ""
	}
	return handle
}

// firstPatternMatch is the shared first-non-empty combinator for ordered
// pattern lists.
func firstPatternMatch(text string, patterns []*regexp.Regexp) string {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// keywordLookup returns the canonical label of the first table keyword found
// in the text. Table order encodes specificity.
func keywordLookup(upper string, table []constants.KeywordLabel) string {
	for _, kl := range table {
		if strings.Contains(upper, kl.Keyword) {
			return kl.Label
		}
	}
	return ""
}
