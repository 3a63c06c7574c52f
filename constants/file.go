package constants

import "strings"

// PDF is the only document format the renamer accepts.
const PDF = "pdf"

// PDFSuffix is appended to every suggested name.
const PDFSuffix = ".pdf"

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsPDFName reports whether name ends in ".pdf", ignoring case.
func IsPDFName(name string) bool {
	n := len(name) - len(PDFSuffix)
	return n >= 0 && strings.EqualFold(name[n:], PDFSuffix)
}

// TrimPDFSuffix removes a trailing ".pdf" (any case) from name.
func TrimPDFSuffix(name string) string {
	if IsPDFName(name) {
		return name[:len(name)-len(PDFSuffix)]
	}
	return name
}
