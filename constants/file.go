package constants

import "strings"

// Format is the coarse document format handled by the pipeline.
type Format string

const (
	PDF   Format = "PDF"
	IMAGE Format = "IMAGE"
)

// AllowedPaperExtensions holds the accepted extensions for paper uploads.
var AllowedPaperExtensions = map[string]struct{}{
	"pdf": {},
}

// AllowedReceiptExtensions holds the accepted extensions for receipt uploads.
var AllowedReceiptExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized extension to a Format, or "" if unsupported.
func MapExtToFormat(ext string) Format {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "jpg", "jpeg", "png":
		return IMAGE
	default:
		return ""
	}
}
