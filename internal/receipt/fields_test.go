package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTransactionID(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"labeled transaction id", "TRANSACTION ID: AXI12345678", "AXI12345678"},
		{"utr label", "UTR: 425512345678", "425512345678"},
		{"order id label", "ORDER ID: OD123456789012", "OD123456789012"},
		{"phonepe shape without label", "PAID VIA T2210281209321894512345 TODAY", "T2210281209321894512345"},
		{"bare numeric run without label", "payment of 12345678901234 received", "12345678901234"},
		{"blacklisted capture falls through to nothing", "TXN ID: TRANSACTION", ""},
		{"noise capture falls through to next tier", "TXN NO: 111111111111 REF NO: AB12CD34EF56", "AB12CD34EF56"},
		{"no candidates", "PAYMENT DONE THANK YOU", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ExtractFields(tt.text)
			assert.Equal(t, tt.want, f.TransactionID)
		})
	}
}

func TestExtractAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"labeled with rupee words", "Amount Paid: Rs. 1,250.00", "1250.00"},
		{"rupee symbol", "you sent ₹250.00 today", "250.00"},
		{"inr prefix", "INR 999", "999"},
		{"bare decimal fallback", "charged 150.00 for registration", "150.00"},
		{"above plausible range", "TOTAL: 99999999", ""},
		{"zero rejected", "AMOUNT: 0", ""},
		{"no amount", "thank you for your payment", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ExtractFields(tt.text)
			assert.Equal(t, tt.want, f.Amount)
		})
	}
}

func TestExtractDateAndTime(t *testing.T) {
	f := ExtractFields("paid on 15 Mar 2024 at 10:45 AM")
	assert.Equal(t, "15 MAR 2024", f.Date)
	assert.Equal(t, "10:45 AM", f.Time)

	f = ExtractFields("date: 12/03/2024 21:05")
	assert.Equal(t, "12/03/2024", f.Date)
	assert.Equal(t, "21:05", f.Time)
}

func TestExtractUPI(t *testing.T) {
	f := ExtractFields("pay to merchant-123@okaxis")
	assert.Equal(t, "merchant-123@okaxis", f.UPIID)

	// Consumer mail domains are author contacts, not payment handles.
	f = ExtractFields("contact someone@gmail.com for queries")
	assert.Equal(t, "", f.UPIID)
}

func TestKeywordFields(t *testing.T) {
	f := ExtractFields("Paid via GPay, payment successful, HDFC Bank")
	assert.Equal(t, "Google Pay", f.PaymentMethod)
	assert.Equal(t, "Success", f.Status)
	assert.Equal(t, "HDFC Bank", f.BankName)

	// Brand keyword outranks the generic UPI token.
	f = ExtractFields("PhonePe UPI payment pending")
	assert.Equal(t, "PhonePe", f.PaymentMethod)
	assert.Equal(t, "Pending", f.Status)
}

func TestExtractFieldsRealisticReceipt(t *testing.T) {
	text := `PhonePe
Payment Successful
12:34 PM on 15 Mar 2024
Paid to Conference Desk
₹2,500.00
Transaction ID T2303151234567890123456
UTR 404912345678
Paid via UPI
conference@okhdfcbank
HDFC Bank ****1234`

	f := ExtractFields(text)
	assert.Equal(t, "T2303151234567890123456", f.TransactionID)
	assert.Equal(t, "2500.00", f.Amount)
	assert.Equal(t, "15 MAR 2024", f.Date)
	assert.Equal(t, "12:34 PM", f.Time)
	assert.Equal(t, "PhonePe", f.PaymentMethod)
	assert.Equal(t, "Success", f.Status)
	assert.Equal(t, "conference@okhdfcbank", f.UPIID)
	assert.Equal(t, "HDFC Bank", f.BankName)
}

func TestExtractFieldsDeterministic(t *testing.T) {
	text := "TXN ID: AXI12345678 AMOUNT: RS 500"
	first := ExtractFields(text)
	second := ExtractFields(text)
	assert.Equal(t, first, second)
}

func TestExtractFieldsEmptyText(t *testing.T) {
	assert.Equal(t, PaymentFields{}, ExtractFields(""))
}
