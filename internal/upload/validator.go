package upload

import "strings"

// acceptedExtensions is the fixed allow-set of attachment extensions.
var acceptedExtensions = map[string]struct{}{
	"pdf":  {},
	"doc":  {},
	"docx": {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"xlsx": {},
	"csv":  {},
}

// AcceptedExtensions returns the allow-set in display order.
func AcceptedExtensions() []string {
	return []string{"pdf", "doc", "docx", "jpg", "jpeg", "png", "xlsx", "csv"}
}

// Extension returns the lower-cased text after the last dot of name, or ""
// when name has no dot.
func Extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}

// IsAcceptable reports whether a file with this name may be staged.
func IsAcceptable(name string) bool {
	ext := Extension(name)
	if ext == "" {
		return false
	}
	_, ok := acceptedExtensions[ext]
	return ok
}
