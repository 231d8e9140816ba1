package markdown

import "strings"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// escapeHTML escapes the five characters that are significant in HTML text
// and attribute values.
func escapeHTML(value string) string {
	return htmlEscaper.Replace(value)
}
