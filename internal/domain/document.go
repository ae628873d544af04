package domain

import "strings"

const (
	MIMETypePDF  = "application/pdf"
	MIMETypePNG  = "image/png"
	MIMETypeJPEG = "image/jpeg"
	MIMETypeWEBP = "image/webp"
	MIMETypeHEIC = "image/heic"
)

// Document is a single receipt blob (screenshot or PDF) submitted for OCR.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// IsPDF reports whether the document is a PDF rather than an image.
func (d Document) IsPDF() bool {
	return strings.EqualFold(d.MIMEType, MIMETypePDF)
}

// IsImage reports whether the document carries an image payload.
func (d Document) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(d.MIMEType), "image/")
}

// Extension returns the file extension used when persisting the document.
func (d Document) Extension() string {
	switch strings.ToLower(d.MIMEType) {
	case MIMETypePDF:
		return "pdf"
	case MIMETypePNG:
		return "png"
	case MIMETypeJPEG, "image/jpg":
		return "jpg"
	case MIMETypeWEBP:
		return "webp"
	case MIMETypeHEIC:
		return "heic"
	default:
		return "bin"
	}
}
