package portfolio

import (
	"context"
	"net/http"

	casestudies "github.com/goliatone/go-portfolio/internal/casestudies"
	markdowncmd "github.com/goliatone/go-portfolio/internal/commands/markdown"
	"github.com/goliatone/go-portfolio/internal/contact"
	"github.com/goliatone/go-portfolio/internal/content"
	"github.com/goliatone/go-portfolio/internal/di"
	"github.com/goliatone/go-portfolio/internal/markdown"
	"github.com/goliatone/go-portfolio/internal/posts"
	"github.com/goliatone/go-portfolio/internal/scheduler"
	"github.com/goliatone/go-portfolio/internal/testimonials"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// PostService exports the blog post service contract.
type PostService = posts.Service

// CaseStudyService exports the case study service contract.
type CaseStudyService = casestudies.Service

// TestimonialService exports the testimonial service contract.
type TestimonialService = testimonials.Service

// ContactService exports the contact form service contract.
type ContactService = contact.Service

// SyncOptions controls a content directory sync.
type SyncOptions = content.SyncOptions

// SyncResult summarises a content directory sync.
type SyncResult = content.SyncResult

// Option customises the container built by New.
type Option = di.Option

var (
	WithLoggerProvider = di.WithLoggerProvider
	WithBunDB          = di.WithBunDB
	WithCache          = di.WithCache
	WithContentFS      = di.WithContentFS
	WithMailer         = di.WithMailer
	WithMetrics        = di.WithMetrics
)

// Render converts Markdown text into HTML with the built-in converter.
func Render(source string) string {
	return markdown.Render(source)
}

// Module is the top level portfolio runtime.
type Module struct {
	container *di.Container
}

// New builds a portfolio module from cfg.
func New(ctx context.Context, cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(ctx, cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

func (m *Module) Posts() PostService {
	return m.container.PostService()
}

func (m *Module) CaseStudies() CaseStudyService {
	return m.container.CaseStudyService()
}

func (m *Module) Testimonials() TestimonialService {
	return m.container.TestimonialService()
}

func (m *Module) Contact() ContactService {
	return m.container.ContactService()
}

// Markdown returns the configured parser.
func (m *Module) Markdown() interfaces.MarkdownParser {
	return m.container.Parser()
}

// Commands returns the registered render and sync handlers.
func (m *Module) Commands() *markdowncmd.HandlerSet {
	return m.container.Commands()
}

// Scheduler returns the background job scheduler. It is not started.
func (m *Module) Scheduler() *scheduler.Scheduler {
	return m.container.Scheduler()
}

// Sync imports the content directory into the configured repositories.
func (m *Module) Sync(ctx context.Context, opts SyncOptions) (*SyncResult, error) {
	return m.container.Importer().SyncDirectory(ctx, di.SyncRoot, opts)
}

// Handler returns the HTTP API for the enabled features.
func (m *Module) Handler() (http.Handler, error) {
	return m.container.HTTPHandler()
}

// Close releases resources owned by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}
