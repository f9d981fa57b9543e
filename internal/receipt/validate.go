package receipt

import (
	"strings"
	"unicode"

	"github.com/paperdesk/prefill/constants"
)

const (
	txnIDMinLen          = 8
	txnIDMinDistinct     = 5
	txnIDNumericMinLen   = 12
	txnIDMixedMinLen     = 10
	txnIDMaxMaskFraction = 0.4
)

// ValidTransactionID is the validation gate for transaction-ID candidates:
// a chain of independent rejection rules followed by the acceptance rules.
// A rejected candidate makes the cascade fall through to the next pattern
// tier rather than giving up.
func ValidTransactionID(s string) bool {
	switch {
	case tooShort(s):
		return false
	case blacklisted(s):
		return false
	case lowDiversity(s):
		return false
	case mostlyMasked(s):
		return false
	case !alphanumeric(s):
		return false
	}
	return acceptableShape(s)
}

// tooShort rejects candidates under the minimum ID length.
func tooShort(s string) bool {
	return len(s) < txnIDMinLen
}

// blacklisted rejects status/label words that regularly appear next to the
// real ID ("SUCCESSFUL", "TRANSACTION", ...) but are not it.
func blacklisted(s string) bool {
	_, ok := constants.TransactionIDBlacklist[s]
	return ok
}

// lowDiversity rejects repeated-character noise like "111111111111".
func lowDiversity(s string) bool {
	distinct := map[rune]struct{}{}
	for _, r := range s {
		distinct[r] = struct{}{}
	}
	return len(distinct) < txnIDMinDistinct
}

// mostlyMasked rejects partially redacted account numbers ("XXXXXX1234").
func mostlyMasked(s string) bool {
	if s == "" {
		return false
	}
	masked := strings.Count(s, "X")
	return float64(masked) > float64(len(s))*txnIDMaxMaskFraction
}

func alphanumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// acceptableShape accepts a pure numeric run of 12+ digits, or a mix of
// letters and digits of 10+ characters. Anything else is rejected.
func acceptableShape(s string) bool {
	var hasLetter, hasDigit bool
	allDigits := true
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLetter(r):
			hasLetter = true
			allDigits = false
		}
	}
	if allDigits && len(s) >= txnIDNumericMinLen {
		return true
	}
	return hasLetter && hasDigit && len(s) >= txnIDMixedMinLen
}
