//go:build !ocr

// Package tesseract recognises receipt screenshots locally with the
// Tesseract engine.
//
// This is the stub used when the "ocr" build tag is not set. Rebuild with
//
//	go build -tags ocr
//
// to enable it.
package tesseract

import (
	"context"
	"errors"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
)

// ErrOCRNotEnabled is returned when local OCR was not compiled in.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client is a stub that fails every operation.
type Client struct{}

// New returns ErrOCRNotEnabled.
func New(language string) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op. It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

func (c *Client) Recognize(ctx context.Context, doc domain.Document) (string, error) {
	return "", ErrOCRNotEnabled
}

func (c *Client) Name() string {
	return "tesseract"
}
