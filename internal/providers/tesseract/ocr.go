//go:build ocr

// Package tesseract recognises receipt screenshots locally with the
// Tesseract engine via gosseract. Tesseract must be installed:
//
//	apt-get install tesseract-ocr
package tesseract

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
)

// Client wraps a single gosseract client. Tesseract handles are not safe for
// concurrent use, so recognitions are serialised.
type Client struct {
	mu     sync.Mutex
	client *gosseract.Client
}

// New creates a client for the given "+"-separated language list ("eng+hin").
// The client should be closed when no longer needed.
func New(language string) (*Client, error) {
	client := gosseract.NewClient()
	if language = strings.TrimSpace(language); language != "" {
		if err := client.SetLanguage(strings.Split(language, "+")...); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("set tesseract language: %w", err)
		}
	}
	// Receipts are sparse label/value layouts.
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("set page segmentation mode: %w", err)
	}
	return &Client{client: client}, nil
}

// Close releases Tesseract resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Recognize performs OCR on an image document. PDFs are rejected.
func (c *Client) Recognize(ctx context.Context, doc domain.Document) (string, error) {
	if !doc.IsImage() {
		return "", fmt.Errorf("%w: tesseract reads images only, got %s", domain.ErrInvalidDocument, doc.MIMEType)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.client.SetImageFromBytes(doc.Data); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// Name identifies the engine in logs and scan job records.
func (c *Client) Name() string {
	return "tesseract"
}
