package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

var (
	ErrStorageDriverUnknown       = errors.New("portfolio config: storage driver is invalid")
	ErrStorageDSNRequired         = errors.New("portfolio config: storage dsn is required for sql drivers")
	ErrCacheTTLInvalid            = errors.New("portfolio config: cache ttl must be positive when cache is enabled")
	ErrMarkdownEngineUnknown      = errors.New("portfolio config: markdown engine is invalid")
	ErrMarkdownContentDirRequired = errors.New("portfolio config: markdown content directory is required")
	ErrPreviewLimitInvalid        = errors.New("portfolio config: markdown preview limit must be positive")
	ErrContactRateInvalid         = errors.New("portfolio config: contact rate limit must allow at least one submission")
	ErrContactMailerUnknown       = errors.New("portfolio config: contact mailer is invalid")
	ErrSchedulerSpecInvalid       = errors.New("portfolio config: scheduler spec is invalid")
	ErrHTTPAddressRequired        = errors.New("portfolio config: http address is required")
	ErrLoggingProviderRequired    = errors.New("portfolio config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown     = errors.New("portfolio config: logging provider is invalid")
	ErrLoggingLevelInvalid        = errors.New("portfolio config: logging level is invalid")
	ErrLoggingFormatInvalid       = errors.New("portfolio config: logging format is invalid")
)

// Config aggregates every runtime setting of the portfolio backend.
type Config struct {
	Site      SiteConfig      `mapstructure:"site"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Markdown  MarkdownConfig  `mapstructure:"markdown"`
	Contact   ContactConfig   `mapstructure:"contact"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Routes    RoutesConfig    `mapstructure:"routes"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Features  Features        `mapstructure:"features"`
}

type SiteConfig struct {
	Title  string `mapstructure:"title"`
	Author string `mapstructure:"author"`
}

// StorageConfig selects the repository backend. "memory" keeps everything
// in process; "sqlite" and "postgres" use bun.
type StorageConfig struct {
	Driver       string `mapstructure:"driver"`
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// MarkdownConfig controls rendering and the content directory used by sync.
type MarkdownConfig struct {
	Engine          string               `mapstructure:"engine"`
	Strict          bool                 `mapstructure:"strict"`
	StrictRules     bool                 `mapstructure:"strict_rules"`
	ContentDir      string               `mapstructure:"content_dir"`
	Pattern         string               `mapstructure:"pattern"`
	Recursive       bool                 `mapstructure:"recursive"`
	MaxPreviewBytes int64                `mapstructure:"max_preview_bytes"`
	Parser          MarkdownParserConfig `mapstructure:"parser"`
}

// MarkdownParserConfig mirrors interfaces.ParseOptions.
type MarkdownParserConfig struct {
	Extensions []string `mapstructure:"extensions"`
	Sanitize   bool     `mapstructure:"sanitize"`
	HardWraps  bool     `mapstructure:"hard_wraps"`
	SafeMode   bool     `mapstructure:"safe_mode"`
}

// ContactConfig tunes the contact form limiter, spam filter and delivery.
type ContactConfig struct {
	RateBurst        int           `mapstructure:"rate_burst"`
	RateInterval     time.Duration `mapstructure:"rate_interval"`
	LimiterIdleTTL   time.Duration `mapstructure:"limiter_idle_ttl"`
	MaxLinks         int           `mapstructure:"max_links"`
	MaxRepeatedChars int           `mapstructure:"max_repeated_chars"`
	BlockedKeywords  []string      `mapstructure:"blocked_keywords"`
	Mailer           string        `mapstructure:"mailer"`
	Recipients       []string      `mapstructure:"recipients"`
}

type SchedulerConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	ContentSyncSpec  string `mapstructure:"content_sync_spec"`
	LimiterPruneSpec string `mapstructure:"limiter_prune_spec"`
}

type HTTPConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// RoutesConfig feeds the go-urlkit route manager used for canonical URLs.
type RoutesConfig struct {
	BaseURL string            `mapstructure:"base_url"`
	Group   string            `mapstructure:"group"`
	Paths   map[string]string `mapstructure:"paths"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// Features toggles optional surfaces.
type Features struct {
	Logger  bool `mapstructure:"logger"`
	Metrics bool `mapstructure:"metrics"`
	Contact bool `mapstructure:"contact"`
	Preview bool `mapstructure:"preview"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Title: "Portfolio",
		},
		Storage: StorageConfig{
			Driver:       "memory",
			MaxOpenConns: 4,
			AutoMigrate:  true,
		},
		Cache: CacheConfig{
			Enabled: false,
			TTL:     time.Minute,
		},
		Markdown: MarkdownConfig{
			Engine:          "builtin",
			ContentDir:      "content",
			Pattern:         "*.md",
			Recursive:       true,
			MaxPreviewBytes: 256 << 10,
		},
		Contact: ContactConfig{
			RateBurst:        3,
			RateInterval:     10 * time.Minute,
			LimiterIdleTTL:   time.Hour,
			MaxLinks:         3,
			MaxRepeatedChars: 12,
			BlockedKeywords:  []string{"viagra", "casino", "crypto giveaway", "seo services"},
			Mailer:           "log",
		},
		Scheduler: SchedulerConfig{
			Enabled:          true,
			LimiterPruneSpec: "@every 10m",
		},
		HTTP: HTTPConfig{
			Address:         ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Routes: RoutesConfig{
			Group: "site",
			Paths: map[string]string{
				"post":       "/blog/:slug",
				"case_study": "/case-studies/:slug",
			},
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Features: Features{
			Logger:  true,
			Metrics: true,
			Contact: true,
			Preview: true,
		},
	}
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch normalize(cfg.Storage.Driver) {
	case "memory":
	case "sqlite", "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return fmt.Errorf("%w: %s", ErrStorageDSNRequired, normalize(cfg.Storage.Driver))
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
	}
	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		return ErrCacheTTLInvalid
	}

	switch normalize(cfg.Markdown.Engine) {
	case "", "builtin", "commonmark", "goldmark":
	default:
		return fmt.Errorf("%w: %s", ErrMarkdownEngineUnknown, cfg.Markdown.Engine)
	}
	if strings.TrimSpace(cfg.Markdown.ContentDir) == "" {
		return ErrMarkdownContentDirRequired
	}
	if cfg.Features.Preview && cfg.Markdown.MaxPreviewBytes <= 0 {
		return ErrPreviewLimitInvalid
	}

	if cfg.Features.Contact {
		if cfg.Contact.RateBurst < 1 || cfg.Contact.RateInterval <= 0 {
			return ErrContactRateInvalid
		}
		switch normalize(cfg.Contact.Mailer) {
		case "", "noop", "log":
		default:
			return fmt.Errorf("%w: %s", ErrContactMailerUnknown, cfg.Contact.Mailer)
		}
	}

	if cfg.Scheduler.Enabled {
		for _, spec := range []string{cfg.Scheduler.ContentSyncSpec, cfg.Scheduler.LimiterPruneSpec} {
			if strings.TrimSpace(spec) == "" {
				continue
			}
			if _, err := cronParser.Parse(spec); err != nil {
				return fmt.Errorf("%w: %q: %v", ErrSchedulerSpecInvalid, spec, err)
			}
		}
	}

	if strings.TrimSpace(cfg.HTTP.Address) == "" {
		return ErrHTTPAddressRequired
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
