package contact

import (
	"regexp"
	"strings"
)

const (
	ReasonHoneypot       = "honeypot"
	ReasonTooManyLinks   = "too_many_links"
	ReasonBlockedKeyword = "blocked_keyword"
	ReasonRepeatedChars  = "repeated_characters"
)

var linkPattern = regexp.MustCompile(`(?i)https?://|www\.`)

// SpamFilter applies cheap heuristics to contact submissions.
type SpamFilter struct {
	MaxLinks         int
	MaxRepeatedChars int
	BlockedKeywords  []string
}

// Check returns the first matching reason, or "" when the input looks clean.
func (f SpamFilter) Check(input SubmitInput) string {
	if strings.TrimSpace(input.Website) != "" {
		return ReasonHoneypot
	}

	text := input.Subject + "\n" + input.Message
	if f.MaxLinks > 0 && len(linkPattern.FindAllStringIndex(text, -1)) > f.MaxLinks {
		return ReasonTooManyLinks
	}

	lowered := strings.ToLower(text + "\n" + input.Name)
	for _, keyword := range f.BlockedKeywords {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword != "" && strings.Contains(lowered, keyword) {
			return ReasonBlockedKeyword
		}
	}

	if f.MaxRepeatedChars > 0 && longestRun(text) > f.MaxRepeatedChars {
		return ReasonRepeatedChars
	}
	return ""
}

func longestRun(text string) int {
	longest, current := 0, 0
	var prev rune
	for i, r := range text {
		if i > 0 && r == prev {
			current++
		} else {
			current = 1
		}
		prev = r
		if current > longest {
			longest = current
		}
	}
	return longest
}
