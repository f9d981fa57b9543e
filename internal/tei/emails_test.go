package tei

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindEmails(t *testing.T) {
	text := `Corresponding author: asha@univ.edu.
Contact ravi@lab.example.org or asha@univ.edu for data access.
Not an email: foo@bar, @incomplete, plain.text`

	got := FindEmails(text)
	assert.Equal(t, []string{"asha@univ.edu", "ravi@lab.example.org"}, got)
}

func TestFindEmailsNone(t *testing.T) {
	assert.Empty(t, FindEmails("no contact information here"))
}
