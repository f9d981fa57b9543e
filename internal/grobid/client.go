package grobid

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const fulltextPath = "/api/processFulltextDocument"

// Client talks to a GROBID instance, the external PDF structuring service.
// It is a black box that either returns TEI XML or fails; retry policy
// belongs to whoever deploys it, not here.
type Client struct {
	baseURL string
	hc      *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// ProcessFulltext uploads the PDF and returns the TEI XML document string.
func (c *Client) ProcessFulltext(ctx context.Context, filename string, pdf io.Reader) (string, error) {
	reqID := uuid.New().String()
	start := time.Now()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("input", filename)
	if err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}
	if _, err := io.Copy(part, pdf); err != nil {
		return "", fmt.Errorf("copy pdf: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	url := c.baseURL + fulltextPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c.logger.Info("grobid.request",
		"req_id", reqID,
		"url", url,
		"filename", filename,
		"bytes", body.Len(),
	)

	resp, err := c.hc.Do(req)
	if err != nil {
		c.logger.Error("grobid.send_error", "req_id", reqID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("grobid request: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("grobid.body_close_error", "req_id", reqID, "error", cerr)
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read grobid response: %w", err)
	}

	c.logger.Info("grobid.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("grobid: non-2xx status: %d", resp.StatusCode)
	}
	return string(raw), nil
}
