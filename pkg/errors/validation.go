package errors

import (
	"strings"
	"unicode"
)

// ValidateWorkbookFilename validates a workbook filename for safety.
// It ensures the filename is a simple basename without path components
// and carries an Excel extension.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - No path separators or traversal sequences
//   - Must end in .xlsx or .xls
//   - Maximum length of 256 characters
func ValidateWorkbookFilename(name string) error {
	if err := ValidateFilename(name); err != nil {
		return err
	}
	if !strings.HasSuffix(name, ".xlsx") && !strings.HasSuffix(name, ".xls") {
		return New(ErrCodeInvalidFilename, "filename must end in .xlsx or .xls: %q", name)
	}
	return nil
}

// ValidatePDFFilename validates a PDF filename for safety.
func ValidatePDFFilename(name string) error {
	if err := ValidateFilename(name); err != nil {
		return err
	}
	if !strings.HasSuffix(name, ".pdf") {
		return New(ErrCodeInvalidFilename, "filename must end in .pdf: %q", name)
	}
	return nil
}

// ValidateFilename validates a generic output filename for safety.
// It rejects names that could be used for path traversal.
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFilename, "filename cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidFilename, "filename too long (max 256 characters)")
	}

	for _, r := range name {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidFilename, "filename contains invalid control characters")
		}
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidFilename, "filename cannot contain path separators")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidFilename, "filename cannot contain path traversal sequences (..)")
	}

	// No hidden files (starting with .)
	if strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidFilename, "filename cannot be a hidden file")
	}

	return nil
}

// SanitizeFilename reduces an untrusted (client-supplied) filename to a safe
// basename. Path components are stripped, control characters and separators
// are replaced with underscores, and leading dots are trimmed. Returns the
// fallback when nothing usable remains.
func SanitizeFilename(name, fallback string) string {
	// Strip any path components, regardless of separator style
	if i := strings.LastIndexAny(name, "/\\"); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '\x00' || unicode.IsControl(r):
			// drop
		case strings.ContainsRune("/\\:*?\"<>|", r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	clean := strings.Trim(b.String(), ". ")
	clean = strings.ReplaceAll(clean, "..", "_")
	if clean == "" {
		return fallback
	}
	if len(clean) > 256 {
		clean = clean[len(clean)-256:]
	}
	return clean
}
