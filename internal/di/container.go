package di

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	command "github.com/goliatone/go-command"
	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-portfolio/internal/casestudies"
	"github.com/goliatone/go-portfolio/internal/commands"
	markdowncmd "github.com/goliatone/go-portfolio/internal/commands/markdown"
	"github.com/goliatone/go-portfolio/internal/contact"
	"github.com/goliatone/go-portfolio/internal/content"
	httpapi "github.com/goliatone/go-portfolio/internal/http"
	"github.com/goliatone/go-portfolio/internal/links"
	"github.com/goliatone/go-portfolio/internal/logging"
	"github.com/goliatone/go-portfolio/internal/logging/console"
	"github.com/goliatone/go-portfolio/internal/logging/gologger"
	"github.com/goliatone/go-portfolio/internal/markdown"
	"github.com/goliatone/go-portfolio/internal/metrics"
	"github.com/goliatone/go-portfolio/internal/posts"
	"github.com/goliatone/go-portfolio/internal/runtimeconfig"
	"github.com/goliatone/go-portfolio/internal/scheduler"
	"github.com/goliatone/go-portfolio/internal/storage"
	"github.com/goliatone/go-portfolio/internal/testimonials"
	"github.com/goliatone/go-portfolio/internal/validation"
	"github.com/goliatone/go-portfolio/pkg/interfaces"
)

// SyncRoot is the directory handed to the importer; the content directory
// itself is the filesystem root.
const SyncRoot = "."

// Container wires module dependencies from runtimeconfig.Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	contentFS   fs.FS
	parser      interfaces.MarkdownParser
	markdownSvc *markdown.Service
	validator   *validation.Validator
	links       *links.Resolver
	mailer      interfaces.Mailer

	postRepo        posts.PostRepository
	caseStudyRepo   casestudies.CaseStudyRepository
	testimonialRepo testimonials.TestimonialRepository
	submissionRepo  contact.SubmissionRepository

	postSvc        posts.Service
	caseStudySvc   casestudies.Service
	testimonialSvc testimonials.Service
	contactSvc     contact.Service
	importer       *content.Importer

	commands  *markdowncmd.HandlerSet
	metrics   *metrics.Collector
	scheduler *scheduler.Scheduler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies an open database. The container does not close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithContentFS replaces the os.DirFS rooted at Config.Markdown.ContentDir.
func WithContentFS(filesystem fs.FS) Option {
	return func(c *Container) {
		c.contentFS = filesystem
	}
}

// WithMailer overrides the mailer selected by Config.Contact.Mailer.
func WithMailer(mailer interfaces.Mailer) Option {
	return func(c *Container) {
		c.mailer = mailer
	}
}

// WithMetrics overrides the collector created when metrics are enabled.
func WithMetrics(collector *metrics.Collector) Option {
	return func(c *Container) {
		c.metrics = collector
	}
}

// NewContainer validates cfg and builds every service. The returned
// container owns any database it opened; call Close to release it.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	steps := []func(context.Context) error{
		c.configureLogging,
		c.configureStorage,
		c.configureCache,
		c.configureRepositories,
		c.configureMarkdown,
		c.configureServices,
		c.configureCommands,
		c.configureScheduler,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *Container) configureLogging(context.Context) error {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return nil
	}

	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{Writer: os.Stderr}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureStorage(ctx context.Context) error {
	if c.bunDB == nil {
		db, err := storage.Open(ctx, c.Config.Storage)
		if errors.Is(err, storage.ErrNoDatabase) {
			return nil
		}
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}

	if !c.Config.Storage.AutoMigrate {
		return nil
	}
	applied, err := storage.Migrate(ctx, c.bunDB)
	if err != nil {
		return err
	}
	if len(applied) > 0 {
		logging.ModuleLogger(c.loggerProvider, "portfolio.storage").Info("storage.migrated", "migrations", applied)
	}
	return nil
}

func (c *Container) configureCache(context.Context) error {
	if !c.Config.Cache.Enabled || c.bunDB == nil {
		return nil
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.TTL > 0 {
			cfg.TTL = c.Config.Cache.TTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			return fmt.Errorf("di: cache service: %w", err)
		}
		c.cacheService = service
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (c *Container) configureRepositories(context.Context) error {
	if c.bunDB == nil {
		c.postRepo = posts.NewMemoryPostRepository()
		c.caseStudyRepo = casestudies.NewMemoryCaseStudyRepository()
		c.testimonialRepo = testimonials.NewMemoryTestimonialRepository()
		c.submissionRepo = contact.NewMemorySubmissionRepository()
		return nil
	}

	if c.cacheService != nil {
		c.postRepo = posts.NewBunPostRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.caseStudyRepo = casestudies.NewBunCaseStudyRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	} else {
		c.postRepo = posts.NewBunPostRepository(c.bunDB)
		c.caseStudyRepo = casestudies.NewBunCaseStudyRepository(c.bunDB)
	}
	c.testimonialRepo = testimonials.NewBunTestimonialRepository(c.bunDB)
	c.submissionRepo = contact.NewBunSubmissionRepository(c.bunDB)
	return nil
}

func (c *Container) configureMarkdown(context.Context) error {
	cfg := c.Config.Markdown
	defaults := interfaces.ParseOptions{
		Extensions: cfg.Parser.Extensions,
		Sanitize:   cfg.Parser.Sanitize,
		HardWraps:  cfg.Parser.HardWraps,
		SafeMode:   cfg.Parser.SafeMode,
	}

	parser, err := markdown.NewParser(cfg.Engine, markdown.Options{
		Strict:      cfg.Strict,
		StrictRules: cfg.StrictRules,
		HardWraps:   cfg.Parser.HardWraps,
	}, defaults)
	if err != nil {
		return err
	}
	c.parser = parser

	if c.contentFS == nil {
		c.contentFS = os.DirFS(cfg.ContentDir)
	}
	svc, err := markdown.NewService(markdown.Config{
		BasePath:  cfg.ContentDir,
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
		Parser:    defaults,
	}, parser,
		markdown.WithFS(c.contentFS),
		markdown.WithLogger(logging.MarkdownLogger(c.loggerProvider)),
	)
	if err != nil {
		return err
	}
	c.markdownSvc = svc

	validator, err := validation.NewValidator()
	if err != nil {
		return err
	}
	c.validator = validator

	c.links = links.NewResolver(links.Config{
		BaseURL: c.Config.Routes.BaseURL,
		Group:   c.Config.Routes.Group,
		Paths:   c.Config.Routes.Paths,
	})
	return nil
}

func (c *Container) configureServices(context.Context) error {
	c.postSvc = posts.NewService(c.postRepo,
		posts.WithRenderer(c.markdownSvc),
		posts.WithLinkResolver(c.links),
		posts.WithLogger(logging.PostsLogger(c.loggerProvider)),
	)
	c.caseStudySvc = casestudies.NewService(c.caseStudyRepo,
		casestudies.WithRenderer(c.markdownSvc),
		casestudies.WithLinkResolver(c.links),
		casestudies.WithLogger(logging.CaseStudiesLogger(c.loggerProvider)),
	)
	c.testimonialSvc = testimonials.NewService(c.testimonialRepo,
		testimonials.WithLogger(logging.TestimonialsLogger(c.loggerProvider)),
	)

	contactLogger := logging.ContactLogger(c.loggerProvider)
	if c.mailer == nil {
		mailer, err := contact.NewMailer(c.Config.Contact.Mailer, contactLogger)
		if err != nil {
			return err
		}
		c.mailer = mailer
	}
	cc := c.Config.Contact
	c.contactSvc = contact.NewService(c.submissionRepo, contact.Config{
		RateBurst:        cc.RateBurst,
		RateInterval:     cc.RateInterval,
		MaxLinks:         cc.MaxLinks,
		MaxRepeatedChars: cc.MaxRepeatedChars,
		BlockedKeywords:  cc.BlockedKeywords,
		Recipients:       cc.Recipients,
	},
		contact.WithMailer(c.mailer),
		contact.WithLogger(contactLogger),
	)

	c.importer = content.NewImporter(content.ImporterConfig{
		Source:      c.markdownSvc,
		Posts:       c.postSvc,
		CaseStudies: c.caseStudySvc,
		Validator:   c.validator,
		Logger:      logging.ContentLogger(c.loggerProvider),
	})
	return nil
}

func (c *Container) configureCommands(context.Context) error {
	if c.metrics == nil && c.Config.Features.Metrics {
		c.metrics = metrics.New(metrics.WithRuntimeCollectors())
	}

	var observers []commands.Observer
	if c.metrics != nil {
		observers = append(observers, c.metrics)
	}

	features := c.Config.Features
	set, err := markdowncmd.RegisterMarkdownCommands(nil, markdowncmd.Config{
		Parser:   c.parser,
		Syncer:   c.importer,
		Provider: c.loggerProvider,
		Gates: markdowncmd.FeatureGates{
			PreviewEnabled: func() bool { return features.Preview },
		},
		Observers: observers,
	})
	if err != nil {
		return err
	}
	c.commands = set
	return nil
}

func (c *Container) configureScheduler(context.Context) error {
	logger := logging.SchedulerLogger(c.loggerProvider)
	c.scheduler = scheduler.New(scheduler.WithLogger(logger))
	if !c.Config.Scheduler.Enabled {
		return nil
	}

	cfg := c.Config.Scheduler
	if err := markdowncmd.RegisterMarkdownCron(
		c.scheduler.Registrar(scheduler.JobContentSync),
		c.commands.Sync,
		command.HandlerConfig{Expression: cfg.ContentSyncSpec},
		markdowncmd.SyncContentCommand{Directory: SyncRoot},
	); err != nil {
		return err
	}

	idle := c.Config.Contact.LimiterIdleTTL
	if idle <= 0 {
		idle = time.Hour
	}
	return c.scheduler.Add(scheduler.JobLimiterPrune, cfg.LimiterPruneSpec,
		scheduler.PruneLimiterJob(c.contactSvc, idle, func(pruned int) {
			remaining := c.contactSvc.TrackedClients()
			c.metrics.SetRateLimitBuckets(remaining)
			if pruned > 0 {
				logger.Debug("contact.limiter.pruned", "pruned", pruned, "remaining", remaining)
			}
		}),
	)
}

// HTTPHandler builds the public API with the enabled features.
func (c *Container) HTTPHandler() (http.Handler, error) {
	opts := []httpapi.Option{
		httpapi.WithPostService(c.postSvc),
		httpapi.WithCaseStudyService(c.caseStudySvc),
		httpapi.WithTestimonialService(c.testimonialSvc),
		httpapi.WithLogger(logging.HTTPLogger(c.loggerProvider)),
	}
	if c.Config.Features.Contact {
		opts = append(opts, httpapi.WithContactService(c.contactSvc))
	}
	if c.Config.Features.Preview {
		opts = append(opts, httpapi.WithPreviewHandler(c.commands.Render, c.Config.Markdown.MaxPreviewBytes))
	}
	if c.metrics != nil {
		opts = append(opts, httpapi.WithMetrics(c.metrics))
	}
	return httpapi.NewAPI(opts...).Handler()
}

// Close releases the database when the container opened it.
func (c *Container) Close() error {
	if c == nil || c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	return err
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// DB returns the bun database, or nil for the memory driver.
func (c *Container) DB() *bun.DB {
	return c.bunDB
}

func (c *Container) Parser() interfaces.MarkdownParser {
	return c.parser
}

func (c *Container) MarkdownService() *markdown.Service {
	return c.markdownSvc
}

func (c *Container) LinkResolver() *links.Resolver {
	return c.links
}

func (c *Container) PostService() posts.Service {
	return c.postSvc
}

func (c *Container) CaseStudyService() casestudies.Service {
	return c.caseStudySvc
}

func (c *Container) TestimonialService() testimonials.Service {
	return c.testimonialSvc
}

func (c *Container) ContactService() contact.Service {
	return c.contactSvc
}

func (c *Container) Importer() *content.Importer {
	return c.importer
}

// Commands exposes the markdown command handlers.
func (c *Container) Commands() *markdowncmd.HandlerSet {
	return c.commands
}

// Metrics returns the collector, or nil when metrics are disabled.
func (c *Container) Metrics() *metrics.Collector {
	return c.metrics
}

func (c *Container) Scheduler() *scheduler.Scheduler {
	return c.scheduler
}
