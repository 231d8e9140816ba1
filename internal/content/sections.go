package content

import (
	"strings"

	"github.com/goliatone/go-portfolio/internal/casestudies"
)

// SplitSections cuts a case study body on level-two headings. Text before the
// first heading is returned as intro. Headings inside fenced code are ignored.
func SplitSections(body string) (string, []casestudies.Section) {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")

	var (
		intro    []string
		sections []casestudies.Section
		current  *casestudies.Section
		buf      []string
		inFence  bool
	)
	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(strings.Join(buf, "\n"))
		sections = append(sections, *current)
		buf = nil
	}

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}
		if !inFence && strings.HasPrefix(line, "## ") {
			flush()
			current = &casestudies.Section{Heading: strings.TrimSpace(strings.TrimPrefix(line, "## "))}
			continue
		}
		if current == nil {
			intro = append(intro, line)
			continue
		}
		buf = append(buf, line)
	}
	flush()

	return strings.TrimSpace(strings.Join(intro, "\n")), sections
}
