package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-portfolio/internal/casestudies"
	markdowncmd "github.com/goliatone/go-portfolio/internal/commands/markdown"
	"github.com/goliatone/go-portfolio/internal/contact"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/internal/metrics"
	"github.com/goliatone/go-portfolio/internal/openapi"
	"github.com/goliatone/go-portfolio/internal/posts"
	"github.com/goliatone/go-portfolio/internal/testimonials"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// DefaultMaxPreviewBytes caps preview request bodies when no limit is set.
const DefaultMaxPreviewBytes int64 = 256 << 10

const maxContactBytes int64 = 64 << 10

// API registers the public portfolio endpoints.
type API struct {
	basePath        string
	posts           posts.Service
	caseStudies     casestudies.Service
	testimonials    testimonials.Service
	contact         contact.Service
	preview         command.Commander[markdowncmd.RenderMarkdownCommand]
	maxPreviewBytes int64
	metrics         *metrics.Collector
	logger          interfaces.Logger
	doc             *openapi.Document
	now             func() time.Time
}

// Option mutates the API configuration.
type Option func(*API)

// NewAPI constructs an API instance.
func NewAPI(opts ...Option) *API {
	api := &API{
		basePath:        "/api",
		maxPreviewBytes: DefaultMaxPreviewBytes,
		logger:          logging.NoOp(),
		now:             time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(api)
		}
	}
	return api
}

// WithBasePath overrides the base API path (defaults to "/api").
func WithBasePath(path string) Option {
	return func(api *API) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			api.basePath = trimmed
		}
	}
}

func WithPostService(service posts.Service) Option {
	return func(api *API) {
		api.posts = service
	}
}

func WithCaseStudyService(service casestudies.Service) Option {
	return func(api *API) {
		api.caseStudies = service
	}
}

func WithTestimonialService(service testimonials.Service) Option {
	return func(api *API) {
		api.testimonials = service
	}
}

// WithContactService enables POST /contact.
func WithContactService(service contact.Service) Option {
	return func(api *API) {
		api.contact = service
	}
}

// WithPreviewHandler enables POST /markdown/preview. maxBytes <= 0 keeps the
// default cap.
func WithPreviewHandler(handler command.Commander[markdowncmd.RenderMarkdownCommand], maxBytes int64) Option {
	return func(api *API) {
		api.preview = handler
		if maxBytes > 0 {
			api.maxPreviewBytes = maxBytes
		}
	}
}

// WithMetrics records request metrics and exposes /metrics.
func WithMetrics(collector *metrics.Collector) Option {
	return func(api *API) {
		api.metrics = collector
	}
}

func WithLogger(logger interfaces.Logger) Option {
	return func(api *API) {
		if logger != nil {
			api.logger = logger
		}
	}
}

// Register attaches the endpoints to the provided mux.
func (api *API) Register(mux *http.ServeMux) error {
	if mux == nil {
		return fmt.Errorf("http: mux is required")
	}
	if api == nil {
		return fmt.Errorf("http: api is nil")
	}

	base := joinPath(api.basePath, "")
	api.doc = api.newDocument()

	api.registerPostRoutes(mux, base)
	api.registerCaseStudyRoutes(mux, base)
	api.registerTestimonialRoutes(mux, base)
	api.registerContactRoutes(mux, base)
	api.registerPreviewRoutes(mux, base)

	mux.HandleFunc("GET "+joinPath(base, "openapi.json"), api.handleOpenAPI)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if api.metrics != nil {
		mux.Handle("GET /metrics", api.metrics.Handler())
	}
	return nil
}

// Handler returns a mux with every route registered, wrapped in the request
// logging and metrics middleware.
func (api *API) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		return nil, err
	}
	return api.instrument(mux), nil
}
