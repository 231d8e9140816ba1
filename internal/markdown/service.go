package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

var ErrNilDocument = errors.New("markdown service: document is nil")

// Config controls document discovery and default parse options.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Parser    interfaces.ParseOptions
}

// Service loads Markdown documents from disk and renders them with the
// configured parser.
type Service struct {
	cfg    Config
	parser interfaces.MarkdownParser
	loader *Loader
	logger interfaces.Logger
}

var _ interfaces.MarkdownService = (*Service)(nil)

// ServiceOption customises a Service.
type ServiceOption func(*Service)

func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFS replaces the os.DirFS rooted at Config.BasePath.
func WithFS(filesystem fs.FS) ServiceOption {
	return func(s *Service) {
		if filesystem != nil {
			s.loader.fs = filesystem
		}
	}
}

// NewService builds a service rooted at cfg.BasePath. A nil parser selects the
// built-in converter.
func NewService(cfg Config, parser interfaces.MarkdownParser, opts ...ServiceOption) (*Service, error) {
	if parser == nil {
		parser = NewConverter(Options{})
	}

	svc := &Service{
		cfg:    cfg,
		parser: parser,
		loader: NewLoader(nil, LoaderConfig{
			BasePath:  cfg.BasePath,
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
		}),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}

	if svc.loader.fs == nil {
		filesystem, err := dirFS(cfg.BasePath)
		if err != nil {
			return nil, err
		}
		svc.loader.fs = filesystem
	}
	return svc, nil
}

// Load reads and renders a single document.
func (s *Service) Load(ctx context.Context, path string) (*interfaces.Document, error) {
	result, err := s.loader.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if _, err := s.RenderDocument(ctx, result.Document, interfaces.ParseOptions{}); err != nil {
		return nil, err
	}
	return result.Document, nil
}

// LoadDirectory reads and renders every matching document under dir.
func (s *Service) LoadDirectory(ctx context.Context, dir string) ([]*interfaces.Document, error) {
	started := time.Now()
	results, err := s.loader.LoadDirectory(ctx, dir)
	if err != nil {
		s.logger.Error("markdown.load_directory.failed", "dir", dir, "error", err)
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		if _, err := s.RenderDocument(ctx, result.Document, interfaces.ParseOptions{}); err != nil {
			return nil, err
		}
		docs = append(docs, result.Document)
	}
	s.logger.Debug("markdown.load_directory", "dir", dir, "documents", len(docs), "duration", time.Since(started))
	return docs, nil
}

// Render converts markdown using the service defaults merged with opts.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.parser.ParseWithOptions(markdown, mergeParseOptions(s.cfg.Parser, opts))
}

// RenderString is the string form of Render with default options.
func (s *Service) RenderString(ctx context.Context, markdown string) (string, error) {
	html, err := s.Render(ctx, []byte(markdown), interfaces.ParseOptions{})
	if err != nil {
		return "", err
	}
	return string(html), nil
}

// RenderDocument renders doc.Body and stores the result in doc.BodyHTML.
func (s *Service) RenderDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ParseOptions) ([]byte, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	html, err := s.Render(ctx, doc.Body, opts)
	if err != nil {
		return nil, fmt.Errorf("markdown render document %s: %w", doc.FilePath, err)
	}
	doc.BodyHTML = html
	return html, nil
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	result.Sanitize = result.Sanitize || override.Sanitize
	result.HardWraps = result.HardWraps || override.HardWraps
	result.SafeMode = result.SafeMode || override.SafeMode
	return result
}

func dirFS(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
