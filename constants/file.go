package constants

import "strings"

// VisionFileTypes holds the file types the invoice analyzer can send to the
// vision-capable model as inline image content.
var VisionFileTypes = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
}

// AllowedInvoiceExtensions holds the file extensions accepted for vendor
// invoice analysis uploads.
var AllowedInvoiceExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"webp": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsVisionType reports whether the extension can be sent as inline image content.
func IsVisionType(ext string) bool {
	_, ok := VisionFileTypes[NormalizeExt(ext)]
	return ok
}
