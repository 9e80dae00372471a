package constants

import "strings"

// DocumentExtensions holds the default allowed file extensions for document discovery.
var DocumentExtensions = map[string]struct{}{
	"docx": {},
}

// SupportedExtensions lists every extension the extractor can handle.
// Discovery defaults to docx only; the others are opt-in via configuration.
var SupportedExtensions = []string{"docx", "odt", "pdf", "txt", "md"}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// ExtSet builds an extension lookup set from a list of extensions,
// normalizing each entry. An empty list yields the default set.
func ExtSet(exts []string) map[string]struct{} {
	if len(exts) == 0 {
		return DocumentExtensions
	}
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		if n := NormalizeExt(strings.TrimSpace(e)); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}
