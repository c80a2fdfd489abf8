// Package pathcodec converts repository storage paths to compact identifier
// tokens and back.
//
// Fedora 4 stores objects under a pairtree: the first eight characters of the
// object name are repeated as four two-character directories in front of it,
// e.g.
//
//	pcdm/aa/bb/cc/dd/aabbccdd-thesis
//
// Compress drops the redundant directories and joins segments with ':'
//
//	pcdm::aabbccdd-thesis
//
// and Expand reinserts them. Paths must not contain ':' or empty segments.
package pathcodec

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// PathSeparator separates segments of a repository path.
	PathSeparator = "/"

	// TokenSeparator separates segments of a compressed token.
	TokenSeparator = ":"

	// Marker replaces a collapsed pairtree in a compressed token.
	Marker = "::"

	// EscapedSeparator is how PathSeparator appears in a formatted identifier.
	EscapedSeparator = "%2F"
)

// pairtreeMarker matches a collapsed pairtree:
//
//	::([^:]{2})([^:]{2})([^:]{2})([^:]{2})
//
// groups 1-4 are the directory names to reinsert.
var pairtreeMarker = regexp.MustCompile(`::([^:]{2})([^:]{2})([^:]{2})([^:]{2})`)

// Compress rewrites path separators and collapses every pairtree
//
//	:g1:g2:g3:g4:g1g2g3g4
//
// where each g is exactly two non-':' characters, into
//
//	::g1g2g3g4
//
// Matches are found left to right and do not overlap. Paths without a
// pairtree only have their separators rewritten.
func Compress(path string) string {
	s := strings.ReplaceAll(path, PathSeparator, TokenSeparator)

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if prefix, n, ok := pairtreeAt(s, i); ok {
			b.WriteString(Marker)
			b.WriteString(prefix)
			i += n
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}

// pairtreeAt reports whether a pairtree starts at s[i]. It returns the
// eight-character prefix the pairtree repeats and the number of bytes it
// spans. Groups are counted in runes, as pairtreeMarker counts them.
func pairtreeAt(s string, i int) (string, int, bool) {
	// ":aa:bb:cc:dd:" followed by "aabbccdd"
	if i >= len(s) || s[i] != ':' {
		return "", 0, false
	}
	j := i + 1

	var groups strings.Builder
	for g := 0; g < 4; g++ {
		for k := 0; k < 2; k++ {
			r, size := utf8.DecodeRuneInString(s[j:])
			if size == 0 || r == ':' {
				return "", 0, false
			}
			groups.WriteString(s[j : j+size])
			j += size
		}
		if j >= len(s) || s[j] != ':' {
			return "", 0, false
		}
		j++
	}

	prefix := groups.String()
	if !strings.HasPrefix(s[j:], prefix) {
		return "", 0, false
	}
	return prefix, j + len(prefix) - i, true
}

// Expand reverses Compress: each collapsed pairtree is reinserted in front
// of the object name it was taken from, then separators are restored.
func Expand(token string) string {
	expanded := pairtreeMarker.ReplaceAllString(token, ":$1:$2:$3:$4:$1$2$3$4")
	return strings.ReplaceAll(expanded, TokenSeparator, PathSeparator)
}

// FormatID builds an external identifier from a backend prefix and a token.
// Any remaining path separators are percent-escaped.
func FormatID(prefix, token string) string {
	return prefix + TokenSeparator + strings.ReplaceAll(token, PathSeparator, EscapedSeparator)
}

// EncodeID builds the external identifier for a raw repository path.
func EncodeID(prefix, path string) string {
	return FormatID(prefix, Compress(path))
}
