package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. PORTFOLIO_HTTP_ADDRESS.
const EnvPrefix = "portfolio"

// Option describes one configuration key, its default and its meaning.
type Option struct {
	Key     string
	Value   any
	Comment string
}

// Options lists every supported key with the values from DefaultConfig.
func Options() []Option {
	d := DefaultConfig()
	return []Option{
		{Key: "site.title", Value: d.Site.Title, Comment: "Site title used in logs and previews"},
		{Key: "site.author", Value: d.Site.Author, Comment: "Default author for imported posts"},

		{Key: "storage.driver", Value: d.Storage.Driver, Comment: "memory, sqlite or postgres"},
		{Key: "storage.dsn", Value: d.Storage.DSN, Comment: "Data source name for sql drivers"},
		{Key: "storage.max_open_conns", Value: d.Storage.MaxOpenConns, Comment: "Connection pool size"},
		{Key: "storage.auto_migrate", Value: d.Storage.AutoMigrate, Comment: "Create tables on startup"},

		{Key: "cache.enabled", Value: d.Cache.Enabled, Comment: "Wrap sql repositories with go-repository-cache"},
		{Key: "cache.ttl", Value: d.Cache.TTL, Comment: "Cache entry lifetime"},

		{Key: "markdown.engine", Value: d.Markdown.Engine, Comment: "builtin or commonmark"},
		{Key: "markdown.strict", Value: d.Markdown.Strict, Comment: "Strip raw HTML from rendered prose"},
		{Key: "markdown.strict_rules", Value: d.Markdown.StrictRules, Comment: "Only --- renders as a horizontal rule"},
		{Key: "markdown.content_dir", Value: d.Markdown.ContentDir, Comment: "Root of posts/ and case-studies/"},
		{Key: "markdown.pattern", Value: d.Markdown.Pattern, Comment: "Glob for Markdown files"},
		{Key: "markdown.recursive", Value: d.Markdown.Recursive, Comment: "Walk sub-directories"},
		{Key: "markdown.max_preview_bytes", Value: d.Markdown.MaxPreviewBytes, Comment: "Request cap for the preview endpoint"},
		{Key: "markdown.parser.extensions", Value: d.Markdown.Parser.Extensions, Comment: "goldmark extensions for the commonmark engine"},
		{Key: "markdown.parser.sanitize", Value: d.Markdown.Parser.Sanitize, Comment: "Sanitise parser output"},
		{Key: "markdown.parser.hard_wraps", Value: d.Markdown.Parser.HardWraps, Comment: "Render newlines as <br>"},
		{Key: "markdown.parser.safe_mode", Value: d.Markdown.Parser.SafeMode, Comment: "Drop raw HTML"},

		{Key: "contact.rate_burst", Value: d.Contact.RateBurst, Comment: "Submissions allowed back to back per client"},
		{Key: "contact.rate_interval", Value: d.Contact.RateInterval, Comment: "Time to earn one more submission"},
		{Key: "contact.limiter_idle_ttl", Value: d.Contact.LimiterIdleTTL, Comment: "Idle limiter buckets older than this are pruned"},
		{Key: "contact.max_links", Value: d.Contact.MaxLinks, Comment: "Messages with more links are spam"},
		{Key: "contact.max_repeated_chars", Value: d.Contact.MaxRepeatedChars, Comment: "Longest allowed run of one character"},
		{Key: "contact.blocked_keywords", Value: d.Contact.BlockedKeywords, Comment: "Case-insensitive spam keywords"},
		{Key: "contact.mailer", Value: d.Contact.Mailer, Comment: "noop or log"},
		{Key: "contact.recipients", Value: d.Contact.Recipients, Comment: "Notification recipients"},

		{Key: "scheduler.enabled", Value: d.Scheduler.Enabled, Comment: "Run periodic jobs in serve"},
		{Key: "scheduler.content_sync_spec", Value: d.Scheduler.ContentSyncSpec, Comment: "Cron spec for content sync, empty disables"},
		{Key: "scheduler.limiter_prune_spec", Value: d.Scheduler.LimiterPruneSpec, Comment: "Cron spec for limiter pruning"},

		{Key: "http.address", Value: d.HTTP.Address, Comment: "Listen address"},
		{Key: "http.read_timeout", Value: d.HTTP.ReadTimeout, Comment: "Server read timeout"},
		{Key: "http.write_timeout", Value: d.HTTP.WriteTimeout, Comment: "Server write timeout"},
		{Key: "http.shutdown_timeout", Value: d.HTTP.ShutdownTimeout, Comment: "Graceful shutdown budget"},

		{Key: "routes.base_url", Value: d.Routes.BaseURL, Comment: "Public site origin for canonical URLs"},
		{Key: "routes.group", Value: d.Routes.Group, Comment: "go-urlkit group name"},
		{Key: "routes.paths", Value: d.Routes.Paths, Comment: "Route templates keyed by name"},

		{Key: "logging.provider", Value: d.Logging.Provider, Comment: "console or gologger"},
		{Key: "logging.level", Value: d.Logging.Level, Comment: "trace, debug, info, warn, error or fatal"},
		{Key: "logging.format", Value: d.Logging.Format, Comment: "gologger format: json, console or pretty"},
		{Key: "logging.add_source", Value: d.Logging.AddSource, Comment: "Include caller information"},
		{Key: "logging.focus", Value: d.Logging.Focus, Comment: "gologger focus filters"},

		{Key: "features.logger", Value: d.Features.Logger, Comment: "Enable structured logging"},
		{Key: "features.metrics", Value: d.Features.Metrics, Comment: "Expose /metrics"},
		{Key: "features.contact", Value: d.Features.Contact, Comment: "Expose the contact endpoint"},
		{Key: "features.preview", Value: d.Features.Preview, Comment: "Expose the markdown preview endpoint"},
	}
}

// Load resolves configuration with precedence defaults < file < env and
// returns the validated result. A config file set on v with SetConfigFile
// must exist; otherwise "portfolio.{yaml,toml,json}" is searched for in the
// working directory and the user config dir.
func Load(v *viper.Viper) (Config, error) {
	explicit := v.ConfigFileUsed() != ""
	if !explicit {
		v.SetConfigName("portfolio")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "portfolio"))
		}
	}

	for _, o := range Options() {
		v.SetDefault(o.Key, o.Value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("portfolio config: read: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("portfolio config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
