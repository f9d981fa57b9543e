package constants

// StatusKeywords maps status tokens seen on receipts to canonical labels.
// Ordered: more specific synonyms first; first keyword found in the OCR
// text wins.
var StatusKeywords = []KeywordLabel{
	{"SUCCESSFUL", "Success"},
	{"SUCCESS", "Success"},
	{"COMPLETED", "Success"},
	{"RECEIVED", "Success"},
	{"DECLINED", "Declined"},
	{"FAILED", "Failed"},
	{"FAILURE", "Failed"},
	{"PENDING", "Pending"},
	{"PROCESSING", "Pending"},
}
