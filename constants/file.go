package constants

import "strings"

// Source formats recorded for an uploaded document.
const (
	PDF   = "PDF"
	IMAGE = "IMAGE"
)

// MaxUploadBytes caps a single uploaded document.
const MaxUploadBytes = 10 << 20

// AllowedExtensions holds the default allowed file extensions for PO uploads.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// IsAllowedExt reports whether ext (with or without the dot) may be uploaded.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// MapExtToFormat maps an extension to PDF or IMAGE, or "" when unsupported.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png":
		return IMAGE
	default:
		return ""
	}
}
