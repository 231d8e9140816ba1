package markdown

import (
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

func TestRender(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", "  \n\n\t", ""},
		{"header", "# Title", "<h1>Title</h1>"},
		{"header level six", "###### Six", "<h6>Six</h6>"},
		{"seven hashes is prose", "####### Seven", "<p>####### Seven</p>"},
		{"hash without space is prose", "#tag", "<p>#tag</p>"},
		{"header with bold", "# **Big** title", "<h1><strong>Big</strong> title</h1>"},
		{"bold before italic", "**bold** and *italic*", "<p><strong>bold</strong> and <em>italic</em></p>"},
		{"lone asterisks", "a * b * c", "<p>a * b * c</p>"},
		{
			"link",
			"See [Go](https://go.dev) docs",
			`<p>See <a href="https://go.dev" target="_blank" rel="noopener noreferrer">Go</a> docs</p>`,
		},
		{
			"asterisks inside link target stay literal",
			"[x](http://a.com/*p*)",
			`<p><a href="http://a.com/*p*" target="_blank" rel="noopener noreferrer">x</a></p>`,
		},
		{
			"emphasis inside link label",
			"[*Go*](https://go.dev)",
			`<p><a href="https://go.dev" target="_blank" rel="noopener noreferrer"><em>Go</em></a></p>`,
		},
		{"nul only", "\x00", ""},
		{"nul line inside paragraph", "one\n\x00\x00", "<p>one</p>"},
		{"inline code escapes", "Use `<b>` here", "<p>Use <code>&lt;b&gt;</code> here</p>"},
		{"inline code is literal", "`**x**` and **y**", "<p><code>**x**</code> and <strong>y</strong></p>"},
		{"unordered list", "- one\n- two\n- three", "<ul>\n<li>one</li>\n<li>two</li>\n<li>three</li>\n</ul>"},
		{"ordered list", "1. first\n2. second", "<ol>\n<li>first</li>\n<li>second</li>\n</ol>"},
		{"first marker decides list type", "1. first\n- second", "<ol>\n<li>first</li>\n<li>second</li>\n</ol>"},
		{"plus marker", "+ a", "<ul>\n<li>a</li>\n</ul>"},
		{"blockquote per line", "> one\n> two", "<blockquote>one</blockquote>\n<blockquote>two</blockquote>"},
		{"dash rule", "---", "<hr>"},
		{"star rule", "***", "<hr>"},
		{"paragraphs split on blank lines", "one\ntwo\n\nthree", "<p>one\ntwo</p>\n<p>three</p>"},
		{"crlf input", "one\r\ntwo", "<p>one\ntwo</p>"},
		{"raw block html is not wrapped", "<div class=\"note\">hi</div>", "<div class=\"note\">hi</div>"},
		{
			"fenced code with language",
			"```python\nprint(\"hi\") **x**\n```",
			`<pre><code class="language-python">print(&quot;hi&quot;) **x**</code></pre>`,
		},
		{"fenced code default language", "```\nx < y\n```", `<pre><code class="language-text">x &lt; y</code></pre>`},
		{
			"unterminated fence keeps the rest as code",
			"```go\nfmt.Println(1)\n# not a header",
			"<pre><code class=\"language-go\">fmt.Println(1)\n# not a header</code></pre>",
		},
		{"malformed table falls back to paragraph", "| A | B |\n|---|---|", "<p>| A | B |\n|---|---|</p>"},
		{
			"table",
			"| A | B |\n|---|---|\n| 1 | 2 |",
			"<table>\n<thead>\n<tr><th>A</th><th>B</th></tr>\n</thead>\n<tbody>\n<tr class=\"row-even\"><td>1</td><td>2</td></tr>\n</tbody>\n</table>",
		},
		{
			"blocks interrupt paragraphs",
			"intro\n## Next\nbody",
			"<p>intro</p>\n<h2>Next</h2>\n<p>body</p>",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Render(tc.input); got != tc.want {
				t.Fatalf("Render(%q)\nwant: %q\ngot:  %q", tc.input, tc.want, got)
			}
		})
	}
}

func TestRenderStrictRules(t *testing.T) {
	c := NewConverter(Options{StrictRules: true})
	if got := c.Render("***"); got != "<p>***</p>" {
		t.Fatalf("expected *** to stay prose with strict rules, got %q", got)
	}
	if got := c.Render("---"); got != "<hr>" {
		t.Fatalf("expected --- to remain a rule, got %q", got)
	}
}

func TestRenderHardWraps(t *testing.T) {
	c := NewConverter(Options{HardWraps: true})
	if got := c.Render("one\ntwo"); got != "<p>one<br>\ntwo</p>" {
		t.Fatalf("unexpected hard wrap output %q", got)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	input := "# Title\n\n| A | B |\n|---|---|\n| 1 | 2 |\n\n```go\nx := 1\n```\n\n- a\n- b"
	want := Render(input)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := Render(input); got != want {
				t.Errorf("concurrent render differed:\n%s\n%s", want, got)
			}
		}()
	}
	wg.Wait()
}

func TestRenderTableStructure(t *testing.T) {
	input := strings.Join([]string{
		"| Name | Role |",
		"|:-----|-----:|",
		"| Ada | **Engineer** |",
		"| Linus | Maintainer | extra |",
		"| Grace | `COBOL` |",
	}, "\n")

	doc := parseHTML(t, Render(input))

	if got := doc.Find("table").Length(); got != 1 {
		t.Fatalf("expected one table, got %d", got)
	}
	headers := doc.Find("thead th").Map(func(_ int, s *goquery.Selection) string { return s.Text() })
	if strings.Join(headers, ",") != "Name,Role" {
		t.Fatalf("unexpected headers %v", headers)
	}

	rows := doc.Find("tbody tr")
	if rows.Length() != 3 {
		t.Fatalf("expected 3 body rows, got %d", rows.Length())
	}
	wantClasses := []string{"row-even", "row-odd", "row-even"}
	rows.Each(func(i int, row *goquery.Selection) {
		if class, _ := row.Attr("class"); class != wantClasses[i] {
			t.Fatalf("row %d: expected class %s, got %s", i, wantClasses[i], class)
		}
	})
	if got := rows.Eq(1).Find("td").Length(); got != 3 {
		t.Fatalf("expected mismatched row to keep 3 cells, got %d", got)
	}
	if got := rows.Eq(0).Find("td strong").Text(); got != "Engineer" {
		t.Fatalf("expected inline bold inside cell, got %q", got)
	}
	if got := rows.Eq(2).Find("td code").Text(); got != "COBOL" {
		t.Fatalf("expected inline code inside cell, got %q", got)
	}
}

func TestRenderListBoundary(t *testing.T) {
	doc := parseHTML(t, Render("- one\n- two\n- three"))
	if got := doc.Find("ul").Length(); got != 1 {
		t.Fatalf("expected a single list, got %d", got)
	}
	if got := doc.Find("ul > li").Length(); got != 3 {
		t.Fatalf("expected 3 items, got %d", got)
	}
}

func TestRenderEscapingBoundary(t *testing.T) {
	input := "Hello <script>alert(1)</script>\n\n`<script>`\n\n```html\n<script>alert(2)</script>\n```"

	lenient := Render(input)
	if !strings.Contains(lenient, "<p>Hello <script>alert(1)</script></p>") {
		t.Fatalf("expected prose HTML to pass through in lenient mode, got %q", lenient)
	}
	if !strings.Contains(lenient, "<code>&lt;script&gt;</code>") {
		t.Fatalf("expected inline code to be escaped, got %q", lenient)
	}
	if !strings.Contains(lenient, "&lt;script&gt;alert(2)&lt;/script&gt;") {
		t.Fatalf("expected fenced code to be escaped, got %q", lenient)
	}

	strict := NewConverter(Options{Strict: true}).Render(input)
	if strings.Contains(strict, "<script") {
		t.Fatalf("expected strict mode to strip script tags, got %q", strict)
	}
	if strings.Contains(strict, "alert(1)") {
		t.Fatalf("expected strict mode to drop script content, got %q", strict)
	}
}

func TestRenderStrictKeepsConverterMarkup(t *testing.T) {
	input := "# Title\n\n| A | B |\n|---|---|\n| 1 | 2 |\n\n```go\nx := 1\n```\n\n[Go](https://go.dev) <img src=x onerror=alert(1)>"
	doc := parseHTML(t, NewConverter(Options{Strict: true}).Render(input))

	if doc.Find("h1").Text() != "Title" {
		t.Fatalf("expected heading to survive sanitising")
	}
	if doc.Find("tr.row-even").Length() != 1 {
		t.Fatalf("expected zebra class to survive sanitising")
	}
	if doc.Find("code.language-go").Length() != 1 {
		t.Fatalf("expected code language class to survive sanitising")
	}
	link := doc.Find("a")
	if href, _ := link.Attr("href"); href != "https://go.dev" {
		t.Fatalf("expected link href to survive, got %q", href)
	}
	if target, _ := link.Attr("target"); target != "_blank" {
		t.Fatalf("expected link target to survive, got %q", target)
	}
	if _, ok := doc.Find("img").Attr("onerror"); ok {
		t.Fatalf("expected event handler attributes to be stripped")
	}
}

func TestRenderStrictKeepsLinkRelTokens(t *testing.T) {
	doc := parseHTML(t, NewConverter(Options{Strict: true}).Render("[Go](https://go.dev) and [About](/about)"))

	links := doc.Find("a")
	if links.Length() != 2 {
		t.Fatalf("expected two links, got %d", links.Length())
	}
	links.Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		rel, _ := link.Attr("rel")
		tokens := strings.Fields(rel)
		for _, want := range []string{"noopener", "noreferrer"} {
			found := false
			for _, token := range tokens {
				if token == want {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected rel on %q to contain %s, got %q", href, want, rel)
			}
		}
	})
}

func TestConverterParseWithOptions(t *testing.T) {
	c := NewConverter(Options{})
	out, err := c.ParseWithOptions([]byte("<script>x</script>ok"), interfaces.ParseOptions{Sanitize: true})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if strings.Contains(string(out), "<script") {
		t.Fatalf("expected Sanitize to enable strict output, got %q", out)
	}

	out, err = c.Parse([]byte("# Hi"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if string(out) != "<h1>Hi</h1>" {
		t.Fatalf("unexpected Parse output %q", out)
	}
}

func parseHTML(t *testing.T, fragment string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}
