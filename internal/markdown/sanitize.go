package markdown

import (
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy keeps the markup the converter emits and strips everything
// else. bluemonday policies are safe for concurrent use once built.
var strictPolicy = newStrictPolicy()

func newStrictPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^language-[\w+#.-]+$`)).OnElements("code")
	policy.AllowAttrs("class").Matching(regexp.MustCompile(`^row-(even|odd)$`)).OnElements("tr")
	policy.AllowAttrs("target").Matching(regexp.MustCompile(`^_blank$`)).OnElements("a")
	policy.RequireNoFollowOnLinks(false)
	policy.RequireNoReferrerOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return policy
}

func sanitize(fragment string) string {
	return strictPolicy.Sanitize(fragment)
}

// SanitizeHTML runs an HTML fragment through the strict policy.
func SanitizeHTML(fragment []byte) []byte {
	return strictPolicy.SanitizeBytes(fragment)
}
