package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdesk/prefill/internal/receipt"
)

const stubTEI = `<TEI>
  <teiHeader>
    <fileDesc>
      <titleStmt><title type="main">Stub Paper</title></titleStmt>
      <sourceDesc><author><persName><surname>Patel</surname></persName></author></sourceDesc>
    </fileDesc>
  </teiHeader>
</TEI>`

type fakeStructurer struct {
	tei string
	err error
}

func (f fakeStructurer) ProcessFulltext(_ context.Context, _ string, pdf io.Reader) (string, error) {
	_, _ = io.ReadAll(pdf)
	return f.tei, f.err
}

type fakeReceipts struct {
	fields receipt.PaymentFields
	err    error
}

func (f fakeReceipts) Extract(context.Context, string) (receipt.PaymentFields, error) {
	return f.fields, f.err
}

func tempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("stub bytes"), 0o644))
	return path
}

func TestPrefillBothLegs(t *testing.T) {
	p := NewProcessor(
		fakeStructurer{tei: stubTEI},
		fakeReceipts{fields: receipt.PaymentFields{TransactionID: "AXI12345678", Amount: "500.00"}},
		nil,
	)

	rec, err := p.Prefill(context.Background(), tempFile(t, "paper.pdf"), tempFile(t, "receipt.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "Stub Paper", rec.Title)
	assert.Equal(t, []string{"Patel"}, rec.Authors)
	assert.Equal(t, "AXI12345678", rec.TransactionID)
	assert.Equal(t, "500.00", rec.Amount)
}

func TestPrefillPaperOnly(t *testing.T) {
	p := NewProcessor(fakeStructurer{tei: stubTEI}, fakeReceipts{}, nil)

	rec, err := p.Prefill(context.Background(), tempFile(t, "paper.pdf"), "")
	require.NoError(t, err)
	assert.Equal(t, "Stub Paper", rec.Title)
	assert.Equal(t, "", rec.TransactionID)
}

func TestPrefillOneLegFailedIsPartial(t *testing.T) {
	p := NewProcessor(
		fakeStructurer{err: errors.New("grobid down")},
		fakeReceipts{fields: receipt.PaymentFields{TransactionID: "AXI12345678"}},
		nil,
	)

	rec, err := p.Prefill(context.Background(), tempFile(t, "paper.pdf"), tempFile(t, "receipt.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "", rec.Title)
	assert.Equal(t, "AXI12345678", rec.TransactionID)
}

func TestPrefillAllLegsFailed(t *testing.T) {
	p := NewProcessor(
		fakeStructurer{err: errors.New("grobid down")},
		fakeReceipts{err: errors.New("image decode failed")},
		nil,
	)

	_, err := p.Prefill(context.Background(), tempFile(t, "paper.pdf"), tempFile(t, "receipt.jpg"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grobid down")
	assert.Contains(t, err.Error(), "image decode failed")
}

func TestPrefillMalformedStructuringOutput(t *testing.T) {
	p := NewProcessor(fakeStructurer{tei: "<TEI><broken"}, fakeReceipts{}, nil)

	_, err := p.Prefill(context.Background(), tempFile(t, "paper.pdf"), "")
	require.Error(t, err)
}

func TestPrefillMissingPaperFile(t *testing.T) {
	p := NewProcessor(fakeStructurer{tei: stubTEI}, fakeReceipts{}, nil)

	_, err := p.Prefill(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"), "")
	require.Error(t, err)
}
