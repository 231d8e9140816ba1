package content

import "testing"

func TestSplitSections(t *testing.T) {
	body := "Intro line.\n\n## Challenge\n\nSlow pages.\n\n```md\n## not a heading\n```\n\n## Outcome\nFast pages.\n"

	intro, sections := SplitSections(body)
	if intro != "Intro line." {
		t.Fatalf("unexpected intro %q", intro)
	}
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %+v", sections)
	}
	if sections[0].Heading != "Challenge" || sections[0].Body != "Slow pages.\n\n```md\n## not a heading\n```" {
		t.Fatalf("unexpected first section %+v", sections[0])
	}
	if sections[1].Heading != "Outcome" || sections[1].Body != "Fast pages." {
		t.Fatalf("unexpected second section %+v", sections[1])
	}
}

func TestDocumentKind(t *testing.T) {
	cases := map[string]string{
		"posts/hello.md":              "post",
		"content/posts/2024/hello.md": "post",
		"case-studies/acme.md":        "case_study",
		"about.md":                    "",
		"drafts/posts-archive/x.md":   "",
	}
	for input, want := range cases {
		if got := documentKind(input); got != want {
			t.Fatalf("documentKind(%q) = %q, want %q", input, got, want)
		}
	}
}
