package filtergraph

import "strings"

// Chain composes the -vf expression for the caption burn pass. The subtitle
// burn always comes first; a non-empty color grade is appended after it.
// Order is significant: the grade must not run before the burn.
func Chain(subtitlePath, grade string) string {
	filters := []string{"subtitles=" + EscapePath(subtitlePath)}
	if grade != "" {
		filters = append(filters, grade)
	}
	return strings.Join(filters, ",")
}

// EscapePath escapes the characters the filter parser treats specially in
// file paths.
func EscapePath(p string) string {
	p = strings.ReplaceAll(p, `\`, `\\`)
	p = strings.ReplaceAll(p, ":", `\:`)
	return p
}
