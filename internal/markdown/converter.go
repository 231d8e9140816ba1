package markdown

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// Options controls the built-in converter.
type Options struct {
	// Strict passes the rendered fragment through the sanitising policy so
	// raw HTML in prose is stripped. The default keeps authored HTML as is
	// and only escapes code regions.
	Strict bool
	// StrictRules accepts only "---" as a horizontal rule.
	StrictRules bool
	// HardWraps renders single newlines inside paragraphs as <br>.
	HardWraps bool
}

// Converter renders the site's Markdown dialect to HTML. A Converter holds no
// mutable state and may be shared between goroutines.
type Converter struct {
	opts Options
}

var _ interfaces.MarkdownParser = (*Converter)(nil)

var defaultConverter = NewConverter(Options{})

// NewConverter returns a converter using opts.
func NewConverter(opts Options) *Converter {
	return &Converter{opts: opts}
}

// Render converts input with the default lenient converter.
func Render(input string) string {
	return defaultConverter.Render(input)
}

// Options reports the converter configuration.
func (c *Converter) Options() Options {
	return c.opts
}

// Render converts input to an HTML fragment. It never fails: syntax it does
// not recognise is emitted as paragraph text. Empty input yields "".
func (c *Converter) Render(input string) string {
	return c.render(input, c.opts)
}

// Parse satisfies interfaces.MarkdownParser.
func (c *Converter) Parse(markdown []byte) ([]byte, error) {
	return []byte(c.Render(string(markdown))), nil
}

// ParseWithOptions satisfies interfaces.MarkdownParser. Sanitize and SafeMode
// both enable strict output; Extensions are ignored.
func (c *Converter) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	effective := c.opts
	if opts.Sanitize || opts.SafeMode {
		effective.Strict = true
	}
	if opts.HardWraps {
		effective.HardWraps = true
	}
	return []byte(c.render(string(markdown), effective)), nil
}

func (c *Converter) render(input string, opts Options) string {
	input = normalizeNewlines(input)
	if strings.TrimSpace(input) == "" {
		return ""
	}

	blocks := scanBlocks(strings.Split(input, "\n"), opts)
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if html := b.render(opts); html != "" {
			parts = append(parts, html)
		}
	}
	out := strings.Join(parts, "\n")
	if opts.Strict {
		out = sanitize(out)
	}
	return out
}

func normalizeNewlines(input string) string {
	if !strings.Contains(input, "\r") {
		return input
	}
	input = strings.ReplaceAll(input, "\r\n", "\n")
	return strings.ReplaceAll(input, "\r", "\n")
}

var blockTagPattern = regexp.MustCompile(`^<(h[1-6]|div|table|ul|ol|blockquote|hr|pre)[\s>/]`)

// startsWithBlockTag reports whether authored text already opens with a
// block-level element and so must not be wrapped in <p>.
func startsWithBlockTag(text string) bool {
	return blockTagPattern.MatchString(strings.TrimSpace(text))
}
