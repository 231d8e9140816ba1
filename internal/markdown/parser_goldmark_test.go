package markdown

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

func TestGoldmarkParserRendersGFM(t *testing.T) {
	p := NewGoldmarkParser(interfaces.ParseOptions{})

	out, err := p.Parse([]byte("# Title\n\n| A | B |\n|---|---|\n| 1 | 2 |\n\n~~gone~~"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	html := string(out)
	for _, want := range []string{`<h1 id="title">Title</h1>`, "<table>", "<del>gone</del>"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in %q", want, html)
		}
	}
}

func TestGoldmarkParserSafeModeAndSanitize(t *testing.T) {
	p := NewGoldmarkParser(interfaces.ParseOptions{})
	input := []byte("<script>alert(1)</script>\n\ntext")

	unsafe, _ := p.ParseWithOptions(input, interfaces.ParseOptions{})
	if !strings.Contains(string(unsafe), "<script>") {
		t.Fatalf("expected raw HTML by default, got %q", unsafe)
	}
	for _, opts := range []interfaces.ParseOptions{{SafeMode: true}, {Sanitize: true}} {
		out, err := p.ParseWithOptions(input, opts)
		if err != nil {
			t.Fatalf("ParseWithOptions(%+v): %v", opts, err)
		}
		if strings.Contains(string(out), "<script>") {
			t.Fatalf("expected script to be removed with %+v, got %q", opts, out)
		}
	}
}

func TestNewParserSelectsEngine(t *testing.T) {
	p, err := NewParser("", Options{}, interfaces.ParseOptions{})
	if err != nil {
		t.Fatalf("NewParser builtin: %v", err)
	}
	if _, ok := p.(*Converter); !ok {
		t.Fatalf("expected builtin converter, got %T", p)
	}

	p, err = NewParser("CommonMark", Options{Strict: true}, interfaces.ParseOptions{})
	if err != nil {
		t.Fatalf("NewParser commonmark: %v", err)
	}
	gm, ok := p.(*GoldmarkParser)
	if !ok {
		t.Fatalf("expected goldmark parser, got %T", p)
	}
	if !gm.defaultOptions.Sanitize {
		t.Fatalf("expected strict to map onto Sanitize")
	}

	if _, err := NewParser("asciidoc", Options{}, interfaces.ParseOptions{}); !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("expected ErrUnknownEngine, got %v", err)
	}
}
