package extraction

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
)

// ParseDataURIs decodes caller supplied data URIs of the form
// data:<mime>;base64,<payload>. Any malformed entry fails the whole batch
// with an error matching both domain.ErrInvalidDocument and
// domain.ErrNoTextExtracted.
func ParseDataURIs(uris []string) ([]domain.Document, error) {
	if len(uris) == 0 {
		return nil, domain.ErrNoTextExtracted
	}
	docs := make([]domain.Document, 0, len(uris))
	for i, uri := range uris {
		doc, err := ParseDataURI(uri)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i+1, err)
		}
		doc.Name = fmt.Sprintf("document-%d.%s", i+1, doc.Extension())
		docs = append(docs, doc)
	}
	return docs, nil
}

// ParseDataURI decodes a single base64 data URI.
func ParseDataURI(uri string) (domain.Document, error) {
	uri = strings.TrimSpace(uri)
	rest, ok := cutPrefixFold(uri, "data:")
	if !ok {
		return domain.Document{}, invalidDocument("missing data: scheme")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return domain.Document{}, invalidDocument("missing payload separator")
	}

	params := strings.Split(meta, ";")
	mimeType := strings.ToLower(strings.TrimSpace(params[0]))
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}
	if !isBase64 {
		return domain.Document{}, invalidDocument("payload is not base64 encoded")
	}
	if mimeType == "image/jpg" {
		mimeType = domain.MIMETypeJPEG
	}
	doc := domain.Document{MIMEType: mimeType}
	if !doc.IsPDF() && !doc.IsImage() {
		return domain.Document{}, invalidDocument(fmt.Sprintf("unsupported content type %q", mimeType))
	}

	data, err := decodeBase64(payload)
	if err != nil {
		return domain.Document{}, invalidDocument("payload is not valid base64")
	}
	if len(data) == 0 {
		return domain.Document{}, invalidDocument("empty payload")
	}
	doc.Data = data
	return doc, nil
}

// DataURI encodes a document back into data URI form.
func DataURI(doc domain.Document) string {
	return "data:" + doc.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(doc.Data)
}

func decodeBase64(payload string) ([]byte, error) {
	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)
	data, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return data, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); rawErr == nil {
		return raw, nil
	}
	if url, urlErr := base64.URLEncoding.DecodeString(payload); urlErr == nil {
		return url, nil
	}
	return nil, err
}

func invalidDocument(detail string) error {
	return fmt.Errorf("%w: %w: %s", domain.ErrNoTextExtracted, domain.ErrInvalidDocument, detail)
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
