package extraction

import (
	"errors"
	"testing"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
)

func TestParseDataURI(t *testing.T) {
	doc, err := ParseDataURI("data:image/png;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("ParseDataURI returned error: %v", err)
	}
	if doc.MIMEType != domain.MIMETypePNG || string(doc.Data) != "hello" {
		t.Fatalf("unexpected document: %#v", doc)
	}

	doc, err = ParseDataURI("DATA:application/pdf;name=receipt.pdf;base64,JVBERi0x\n")
	if err != nil {
		t.Fatalf("ParseDataURI returned error: %v", err)
	}
	if !doc.IsPDF() || string(doc.Data) != "%PDF-1" {
		t.Fatalf("unexpected pdf document: %#v", doc)
	}
}

func TestParseDataURIRejectsMalformedInput(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{name: "empty", input: ""},
		{name: "no_scheme", input: "aGVsbG8="},
		{name: "no_separator", input: "data:image/png;base64"},
		{name: "not_base64_flag", input: "data:image/png,hello"},
		{name: "unsupported_type", input: "data:text/plain;base64,aGVsbG8="},
		{name: "bad_payload", input: "data:image/png;base64,***"},
		{name: "empty_payload", input: "data:image/jpeg;base64,"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDataURI(tc.input)
			if !errors.Is(err, domain.ErrNoTextExtracted) {
				t.Fatalf("err = %v, want ErrNoTextExtracted", err)
			}
			if !errors.Is(err, domain.ErrInvalidDocument) {
				t.Fatalf("err = %v, want ErrInvalidDocument", err)
			}
		})
	}
}

func TestParseDataURIs(t *testing.T) {
	if _, err := ParseDataURIs(nil); !errors.Is(err, domain.ErrNoTextExtracted) {
		t.Fatalf("ParseDataURIs(nil) error = %v, want ErrNoTextExtracted", err)
	}

	docs, err := ParseDataURIs([]string{"data:image/jpg;base64,aGVsbG8=", "data:application/pdf;base64,JVBERi0x"})
	if err != nil {
		t.Fatalf("ParseDataURIs returned error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("len(docs) = %d, want 2", len(docs))
	}
	if docs[0].MIMEType != domain.MIMETypeJPEG || docs[0].Name != "document-1.jpg" {
		t.Fatalf("unexpected first document: %#v", docs[0])
	}
	if docs[1].Name != "document-2.pdf" {
		t.Fatalf("second document name = %q", docs[1].Name)
	}

	if _, err := ParseDataURIs([]string{"data:image/png;base64,aGVsbG8=", "garbage"}); !errors.Is(err, domain.ErrInvalidDocument) {
		t.Fatalf("err = %v, want ErrInvalidDocument", err)
	}
}

func TestDataURIRoundTrip(t *testing.T) {
	in := domain.Document{MIMEType: domain.MIMETypeWEBP, Data: []byte{0x52, 0x49, 0x46, 0x46}}
	out, err := ParseDataURI(DataURI(in))
	if err != nil {
		t.Fatalf("ParseDataURI returned error: %v", err)
	}
	if out.MIMEType != in.MIMEType || string(out.Data) != string(in.Data) {
		t.Fatalf("round trip mismatch: %#v", out)
	}
}
