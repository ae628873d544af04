package main

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/abusufiyanbelif/bmsssolapur-v2-sub002/internal/domain"
)

func readDocuments(paths []string) ([]domain.Document, error) {
	docs := make([]domain.Document, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		docs = append(docs, domain.Document{
			Name:     filepath.Base(path),
			MIMEType: detectMIMEType(path, data),
			Data:     data,
		})
	}
	return docs, nil
}

// detectMIMEType trusts a known extension and sniffs the content otherwise.
func detectMIMEType(path string, data []byte) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return domain.MIMETypePDF
	case ".png":
		return domain.MIMETypePNG
	case ".jpg", ".jpeg":
		return domain.MIMETypeJPEG
	case ".webp":
		return domain.MIMETypeWEBP
	case ".heic":
		return domain.MIMETypeHEIC
	}
	sniffed := http.DetectContentType(data)
	if mediaType, _, err := mime.ParseMediaType(sniffed); err == nil {
		return mediaType
	}
	return sniffed
}
