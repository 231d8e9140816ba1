package interfaces

import (
	"context"
	"time"
)

// MarkdownParser converts raw Markdown bytes into an HTML fragment. Every
// rendering engine (the built-in converter and the goldmark adapter)
// satisfies this contract so the service can swap them by configuration.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	// Sanitize strips markup the renderer did not produce itself (raw HTML
	// in prose, scripts, event handlers).
	Sanitize  bool
	HardWraps bool
	SafeMode  bool
}

// MarkdownRenderer is the narrow string-in/string-out view of the rendering
// pipeline consumed by the content services.
type MarkdownRenderer interface {
	RenderString(ctx context.Context, markdown string) (string, error)
}

// MarkdownService exposes filesystem-backed Markdown workflows.
type MarkdownService interface {
	MarkdownRenderer
	Load(ctx context.Context, path string) (*Document, error)
	LoadDirectory(ctx context.Context, dir string) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
}

// Document represents a Markdown file with parsed metadata and content.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum stores the SHA-256 digest of the original file content so
	// sync runs can skip unchanged files.
	Checksum []byte
}

// FrontMatter models metadata extracted from Markdown files. Custom keeps
// every key the typed fields do not capture.
type FrontMatter struct {
	Title    string         `yaml:"title" json:"title"`
	Slug     string         `yaml:"slug" json:"slug"`
	Summary  string         `yaml:"summary" json:"summary"`
	Status   string         `yaml:"status" json:"status"`
	Tags     []string       `yaml:"tags" json:"tags"`
	Author   string         `yaml:"author" json:"author"`
	Date     time.Time      `yaml:"date" json:"date"`
	Draft    bool           `yaml:"draft" json:"draft"`
	Custom   map[string]any `yaml:",inline" json:"custom"`
	Raw      map[string]any `yaml:"-" json:"raw"`
}
