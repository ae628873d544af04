//go:build !ocr

package tesseract

import (
	"context"
	"errors"
	"testing"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
)

func TestNewReturnsErrorWithoutOCRTag(t *testing.T) {
	client, err := New("eng")
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Fatalf("New error = %v, want ErrOCRNotEnabled", err)
	}
	if client != nil {
		t.Fatal("expected nil client when OCR is disabled")
	}
}

func TestStubRecognizeAndClose(t *testing.T) {
	var client *Client
	if err := client.Close(); err != nil {
		t.Fatalf("Close on nil client returned error: %v", err)
	}
	_, err := client.Recognize(context.Background(), domain.Document{MIMEType: domain.MIMETypePNG})
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Fatalf("Recognize error = %v, want ErrOCRNotEnabled", err)
	}
}
