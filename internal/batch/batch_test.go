package batch

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdesk/prefill/internal/prefill"
	"github.com/paperdesk/prefill/internal/receipt"
	"github.com/paperdesk/prefill/internal/tei"
)

type fakePrefiller struct {
	rec  prefill.Record
	err  error
	seen []string
}

func (f *fakePrefiller) Prefill(_ context.Context, paperPath, receiptPath string) (prefill.Record, error) {
	if paperPath != "" {
		f.seen = append(f.seen, paperPath)
	}
	if receiptPath != "" {
		f.seen = append(f.seen, receiptPath)
	}
	return f.rec, f.err
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
	return path
}

func TestProcessWritesRecord(t *testing.T) {
	dir := t.TempDir()
	pre := &fakePrefiller{rec: prefill.Merge(
		tei.ScholarlyMetadata{},
		receipt.PaymentFields{TransactionID: "AXI12345678"},
		nil,
	)}
	r := NewRunner(pre, "", nil)

	in := writeFile(t, dir, "receipt.jpg")
	processed, err := r.Process(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, processed)
	assert.Equal(t, []string{in}, pre.seen)

	data, err := os.ReadFile(filepath.Join(dir, "receipt.prefill.json"))
	require.NoError(t, err)
	var rec prefill.Record
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "AXI12345678", rec.TransactionID)
}

func TestProcessSkipsUnsupported(t *testing.T) {
	dir := t.TempDir()
	pre := &fakePrefiller{}
	r := NewRunner(pre, "", nil)

	processed, err := r.Process(context.Background(), writeFile(t, dir, "notes.txt"))
	require.NoError(t, err)
	assert.False(t, processed)
	assert.Empty(t, pre.seen)
}

func TestProcessRoutesByFormat(t *testing.T) {
	dir := t.TempDir()
	pre := &fakePrefiller{}
	r := NewRunner(pre, "", nil)

	paper := writeFile(t, dir, "paper.pdf")
	_, err := r.Process(context.Background(), paper)
	require.NoError(t, err)
	assert.Equal(t, []string{paper}, pre.seen)
}

func TestProcessUsesOutDir(t *testing.T) {
	dir := t.TempDir()
	out := t.TempDir()
	r := NewRunner(&fakePrefiller{}, out, nil)

	_, err := r.Process(context.Background(), writeFile(t, dir, "receipt.png"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "receipt.prefill.json"))
	assert.NoError(t, err)
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.jpg")
	writeFile(t, dir, "b.pdf")
	writeFile(t, dir, "ignored.txt")
	writeFile(t, dir, ".hidden.jpg")

	r := NewRunner(&fakePrefiller{}, "", nil)
	results, stats, err := r.ScanDirectory(context.Background(), dir, true)
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.Matched)
	assert.EqualValues(t, 2, stats.Succeeded)
	assert.EqualValues(t, 0, stats.Failed)
	assert.Len(t, results, 2)
}

func TestScanDirectoryCountsFailures(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.jpg")

	r := NewRunner(&fakePrefiller{err: errors.New("boom")}, "", nil)
	_, stats, err := r.ScanDirectory(context.Background(), dir, true)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Failed)
	assert.EqualValues(t, 0, stats.Succeeded)
}

func TestScanDirectoryEmptyRoot(t *testing.T) {
	r := NewRunner(&fakePrefiller{}, "", nil)
	_, _, err := r.ScanDirectory(context.Background(), "   ", true)
	assert.Error(t, err)
}
