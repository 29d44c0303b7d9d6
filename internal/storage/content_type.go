package storage

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// Content types FraudBase stores.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// zipMagic opens every OOXML package, .xlsx included.
var zipMagic = []byte("PK\x03\x04")

// DetectContentType picks the MIME type of an object: the provided type
// wins, then the extension, then a sniff of the first 512 bytes of data.
func DetectContentType(providedType, filename string, data io.Reader) string {
	if providedType != "" {
		return providedType
	}

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		return ContentTypeXLSX
	case ".pdf":
		return ContentTypePDF
	default:
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
	}

	if data != nil {
		buf := make([]byte, 512)
		n, err := io.ReadFull(data, buf)
		if err == nil || err == io.EOF || err == io.ErrUnexpectedEOF {
			return http.DetectContentType(buf[:n])
		}
	}

	return "application/octet-stream"
}

// LooksLikeXLSX reports whether head starts with a zip local file header.
// It is a cheap guard before handing the bytes to the workbook parser.
func LooksLikeXLSX(head []byte) bool {
	return bytes.HasPrefix(head, zipMagic)
}

// IsSpreadsheet reports whether contentType names an .xlsx workbook.
func IsSpreadsheet(contentType string) bool {
	return baseType(contentType) == ContentTypeXLSX
}

// IsPDF reports whether contentType is PDF.
func IsPDF(contentType string) bool {
	return baseType(contentType) == ContentTypePDF
}

func baseType(contentType string) string {
	ct, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return ct
}
