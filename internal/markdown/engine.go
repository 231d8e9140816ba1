package markdown

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

const (
	EngineBuiltin    = "builtin"
	EngineCommonMark = "commonmark"
)

var ErrUnknownEngine = errors.New("markdown: unknown engine")

// NewParser returns the parser registered under engine. An empty name selects
// the built-in converter.
func NewParser(engine string, opts Options, defaults interfaces.ParseOptions) (interfaces.MarkdownParser, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineBuiltin:
		return NewConverter(opts), nil
	case EngineCommonMark, "goldmark":
		if opts.Strict {
			defaults.Sanitize = true
		}
		if opts.HardWraps {
			defaults.HardWraps = true
		}
		return NewGoldmarkParser(defaults), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
}
