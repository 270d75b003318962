// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markdown

import (
	"regexp"
	"strings"
)

// maxFilenameLen caps the sanitized base name length, leaving headroom for
// the extension on common filesystems.
const maxFilenameLen = 150

// invalidFilenameRe matches characters that are invalid in filenames on at
// least one major filesystem. Colons are handled separately so they can be
// replaced rather than removed.
var invalidFilenameRe = regexp.MustCompile(`[\\/*?"<>|]`)

// Sanitize turns a book title into a filesystem-safe base filename. Colons
// become " -", invalid characters are removed, whitespace runs collapse to
// a single space, and the result is cut to maxFilenameLen characters at a
// word boundary when possible. The removal set covers both path separators,
// so the result never contains one.
func Sanitize(title string) string {
	s := strings.ReplaceAll(title, ":", " -")
	s = invalidFilenameRe.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) <= maxFilenameLen {
		return s
	}

	cut := maxFilenameLen
	for i := maxFilenameLen - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			cut = i
			break
		}
	}
	return string(runes[:cut])
}
