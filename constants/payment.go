package constants

// KeywordLabel pairs an uppercase keyword with the canonical label it maps
// to. Tables are ordered slices, not maps: order encodes specificity, so a
// brand keyword is always checked before a generic one that would also match.
type KeywordLabel struct {
	Keyword string
	Label   string
}

// PaymentMethodKeywords maps app/brand tokens to canonical payment methods.
// "UPI" and "CARD" stay last: every UPI app receipt also mentions UPI.
var PaymentMethodKeywords = []KeywordLabel{
	{"PHONEPE", "PhonePe"},
	{"PHONE PE", "PhonePe"},
	{"PAYTM", "Paytm"},
	{"GOOGLE PAY", "Google Pay"},
	{"GPAY", "Google Pay"},
	{"AMAZON PAY", "Amazon Pay"},
	{"BHIM", "BHIM UPI"},
	{"NET BANKING", "Net Banking"},
	{"NETBANKING", "Net Banking"},
	{"UPI", "UPI"},
	{"CARD", "Card"},
}

// BankNameKeywords maps bank name variants to canonical bank names.
var BankNameKeywords = []KeywordLabel{
	{"STATE BANK OF INDIA", "State Bank of India"},
	{"SBI", "State Bank of India"},
	{"PUNJAB NATIONAL", "Punjab National Bank"},
	{"PNB", "Punjab National Bank"},
	{"BANK OF BARODA", "Bank of Baroda"},
	{"HDFC", "HDFC Bank"},
	{"ICICI", "ICICI Bank"},
	{"AXIS", "Axis Bank"},
	{"KOTAK", "Kotak Mahindra Bank"},
	{"INDUSIND", "IndusInd Bank"},
	{"YES BANK", "Yes Bank"},
	{"IDBI", "IDBI Bank"},
	{"CANARA", "Canara Bank"},
	{"UNION BANK", "Union Bank of India"},
	{"FEDERAL BANK", "Federal Bank"},
}

// TransactionIDBlacklist holds label/status words that regularly sit next to
// the real transaction ID on receipts and pass the bare length check.
var TransactionIDBlacklist = map[string]struct{}{
	"SUCCESSFUL":  {},
	"SUCCESS":     {},
	"COMPLETED":   {},
	"PENDING":     {},
	"FAILED":      {},
	"TRANSACTION": {},
	"PAYMENT":     {},
	"AMOUNT":      {},
	"BALANCE":     {},
	"ACCOUNT":     {},
	"CUSTOMER":    {},
	"MERCHANT":    {},
	"RECEIVER":    {},
	"SENDER":      {},
	"DETAILS":     {},
	"SUMMARY":     {},
	"RECEIPT":     {},
	"STATEMENT":   {},
	"CONFIRMED":   {},
}
