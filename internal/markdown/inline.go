package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	inlineCodePattern  = regexp.MustCompile("`([^`\n]+)`")
	boldPattern        = regexp.MustCompile(`\*\*([^\n]+?)\*\*`)
	italicPattern      = regexp.MustCompile(`\*([^*\s](?:[^*\n]*[^*\s])?)\*`)
	linkPattern        = regexp.MustCompile(`\[([^\]\n]+)\]\(([^)\s]+)\)`)
	placeholderPattern = regexp.MustCompile("\x00([0-9]+)\x00")
)

// renderInline applies inline code, link, bold and italic substitutions to a
// single line. Code spans and link targets are swapped for placeholders first
// so later patterns never see their content.
func renderInline(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\x00", "")

	var spans []string
	text = inlineCodePattern.ReplaceAllStringFunc(text, func(match string) string {
		content := match[1 : len(match)-1]
		spans = append(spans, "<code>"+escapeHTML(content)+"</code>")
		return "\x00" + strconv.Itoa(len(spans)-1) + "\x00"
	})

	// Link targets are parked like code spans so emphasis never rewrites a URL.
	text = linkPattern.ReplaceAllStringFunc(text, func(match string) string {
		parts := linkPattern.FindStringSubmatch(match)
		spans = append(spans, escapeHTML(parts[2]))
		href := "\x00" + strconv.Itoa(len(spans)-1) + "\x00"
		return `<a href="` + href + `" target="_blank" rel="noopener noreferrer">` + parts[1] + "</a>"
	})
	text = boldPattern.ReplaceAllString(text, "<strong>$1</strong>")
	text = italicPattern.ReplaceAllString(text, "<em>$1</em>")

	if len(spans) == 0 {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		idx, err := strconv.Atoi(match[1 : len(match)-1])
		if err != nil || idx >= len(spans) {
			return ""
		}
		return spans[idx]
	})
}
