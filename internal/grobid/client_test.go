package grobid

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessFulltext(t *testing.T) {
	const teiBody = `<TEI><teiHeader/></TEI>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/processFulltextDocument", r.URL.Path)

		f, fh, err := r.FormFile("input")
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		assert.Equal(t, "paper.pdf", fh.Filename)

		body, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-1.4 fake", string(body))

		_, _ = w.Write([]byte(teiBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	got, err := c.ProcessFulltext(context.Background(), "paper.pdf", strings.NewReader("%PDF-1.4 fake"))
	require.NoError(t, err)
	assert.Equal(t, teiBody, got)
}

func TestProcessFulltextNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, nil)
	_, err := c.ProcessFulltext(context.Background(), "paper.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestProcessFulltextUnreachable(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", 200*time.Millisecond, nil)
	_, err := c.ProcessFulltext(context.Background(), "paper.pdf", strings.NewReader("x"))
	assert.Error(t, err)
}
