// Package encoding provides shared XML escaping utilities.
package encoding

import "strings"

// EscapeXMLText escapes the basic XML entities for text content.
// Unlike xml.EscapeText it leaves whitespace characters untouched, so
// tabs and newlines inside run text survive a rewrite verbatim.
func EscapeXMLText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
