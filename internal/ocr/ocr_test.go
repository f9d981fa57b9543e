package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdesk/prefill/internal/common"
)

// fakeRunner stubs the tesseract binary. Each call returns a distinct text
// so pooling can be asserted; failEvery marks calls that should fail.
type fakeRunner struct {
	mu      sync.Mutex
	calls   [][]string
	failOn  map[int]bool
	perCall func(n int) string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := len(f.calls)
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.failOn[n] {
		return nil, []byte("engine blew up"), errors.New("exit status 1")
	}
	out := fmt.Sprintf("pass-%d", n)
	if f.perCall != nil {
		out = f.perCall(n)
	}
	return []byte(out), nil, nil
}

func writeTestImage(t *testing.T) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			v := uint8(230)
			if x > 8 && x < 24 && y > 8 && y < 24 {
				v = 20
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	path := filepath.Join(t.TempDir(), "receipt.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestPooledRunsAllPassesAndJoins(t *testing.T) {
	r := &fakeRunner{}
	e := NewExtractorWithRunner(Config{}, r, nil)

	pooled, warnings, err := e.Pooled(context.Background(), writeTestImage(t))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	// enhanced x3 layout modes + four grayscale variants x1.
	assert.Len(t, r.calls, 7)
	for i := 0; i < 7; i++ {
		assert.Contains(t, pooled, fmt.Sprintf("pass-%d", i))
	}
}

func TestPooledPassArguments(t *testing.T) {
	r := &fakeRunner{}
	e := NewExtractorWithRunner(Config{Lang: "eng", OEM: 3, TessdataDir: "/opt/tessdata"}, r, nil)

	_, _, err := e.Pooled(context.Background(), writeTestImage(t))
	require.NoError(t, err)
	require.NotEmpty(t, r.calls)

	first := r.calls[0]
	assert.Equal(t, "tesseract", first[0])
	assert.Contains(t, first, "stdout")
	assert.Contains(t, first, "-l")
	assert.Contains(t, first, "eng")
	assert.Contains(t, first, "--psm")
	assert.Contains(t, first, "--tessdata-dir")
	assert.Contains(t, first, "/opt/tessdata")
}

func TestPooledToleratesPassFailures(t *testing.T) {
	r := &fakeRunner{failOn: map[int]bool{2: true, 5: true}}
	e := NewExtractorWithRunner(Config{}, r, nil)

	pooled, warnings, err := e.Pooled(context.Background(), writeTestImage(t))
	require.NoError(t, err)

	assert.Len(t, warnings, 2)
	assert.NotContains(t, pooled, "pass-2")
	assert.Contains(t, pooled, "pass-0")
	assert.Contains(t, pooled, "pass-6")
}

func TestPooledUndecodableImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-an-image.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not pixels"), 0o644))

	r := &fakeRunner{}
	e := NewExtractorWithRunner(Config{}, r, nil)

	_, _, err := e.Pooled(context.Background(), path)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrImageDecode)
	assert.Empty(t, r.calls)
}
