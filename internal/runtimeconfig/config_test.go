package runtimeconfig_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/goliatone/go-portfolio/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{"unknown storage driver", func(c *runtimeconfig.Config) { c.Storage.Driver = "mongo" }, runtimeconfig.ErrStorageDriverUnknown},
		{"sqlite without dsn", func(c *runtimeconfig.Config) { c.Storage.Driver = "sqlite" }, runtimeconfig.ErrStorageDSNRequired},
		{"cache without ttl", func(c *runtimeconfig.Config) { c.Cache.Enabled = true; c.Cache.TTL = 0 }, runtimeconfig.ErrCacheTTLInvalid},
		{"unknown engine", func(c *runtimeconfig.Config) { c.Markdown.Engine = "asciidoc" }, runtimeconfig.ErrMarkdownEngineUnknown},
		{"blank content dir", func(c *runtimeconfig.Config) { c.Markdown.ContentDir = " " }, runtimeconfig.ErrMarkdownContentDirRequired},
		{"zero preview cap", func(c *runtimeconfig.Config) { c.Markdown.MaxPreviewBytes = 0 }, runtimeconfig.ErrPreviewLimitInvalid},
		{"zero burst", func(c *runtimeconfig.Config) { c.Contact.RateBurst = 0 }, runtimeconfig.ErrContactRateInvalid},
		{"unknown mailer", func(c *runtimeconfig.Config) { c.Contact.Mailer = "smtp" }, runtimeconfig.ErrContactMailerUnknown},
		{"bad cron spec", func(c *runtimeconfig.Config) { c.Scheduler.ContentSyncSpec = "every day" }, runtimeconfig.ErrSchedulerSpecInvalid},
		{"blank address", func(c *runtimeconfig.Config) { c.HTTP.Address = "" }, runtimeconfig.ErrHTTPAddressRequired},
		{"missing logging provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "" }, runtimeconfig.ErrLoggingProviderRequired},
		{"unknown logging provider", func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" }, runtimeconfig.ErrLoggingProviderUnknown},
		{"bad level", func(c *runtimeconfig.Config) { c.Logging.Level = "loud" }, runtimeconfig.ErrLoggingLevelInvalid},
		{
			"bad gologger format",
			func(c *runtimeconfig.Config) { c.Logging.Provider = "gologger"; c.Logging.Format = "xml" },
			runtimeconfig.ErrLoggingFormatInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidateSkipsDisabledSurfaces(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Contact = false
	cfg.Contact.Mailer = "smtp"
	cfg.Features.Logger = false
	cfg.Logging.Provider = ""
	cfg.Scheduler.Enabled = false
	cfg.Scheduler.ContentSyncSpec = "nonsense"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected disabled sections to be ignored, got %v", err)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := runtimeconfig.Load(viper.New())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Markdown.MaxPreviewBytes != 256<<10 {
		t.Fatalf("expected default preview cap, got %d", cfg.Markdown.MaxPreviewBytes)
	}
	if cfg.Contact.RateInterval != 10*time.Minute {
		t.Fatalf("expected default rate interval, got %s", cfg.Contact.RateInterval)
	}
	if cfg.Routes.Paths["post"] != "/blog/:slug" {
		t.Fatalf("expected default post route, got %v", cfg.Routes.Paths)
	}
}

func TestLoadFileThenEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.yaml")
	contents := []byte("http:\n  address: \":9000\"\nmarkdown:\n  engine: commonmark\ncontact:\n  rate_interval: 5m\n")
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORTFOLIO_HTTP_ADDRESS", ":9100")

	v := viper.New()
	v.SetConfigFile(path)
	cfg, err := runtimeconfig.Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Address != ":9100" {
		t.Fatalf("expected env to override file, got %s", cfg.HTTP.Address)
	}
	if cfg.Markdown.Engine != "commonmark" {
		t.Fatalf("expected file value for engine, got %s", cfg.Markdown.Engine)
	}
	if cfg.Contact.RateInterval != 5*time.Minute {
		t.Fatalf("expected file duration, got %s", cfg.Contact.RateInterval)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := runtimeconfig.Load(v); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadValidates(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORTFOLIO_STORAGE_DRIVER", "mongo")

	if _, err := runtimeconfig.Load(viper.New()); !errors.Is(err, runtimeconfig.ErrStorageDriverUnknown) {
		t.Fatalf("expected ErrStorageDriverUnknown, got %v", err)
	}
}

func TestOptionsCoverEveryDefault(t *testing.T) {
	seen := map[string]bool{}
	for _, o := range runtimeconfig.Options() {
		if seen[o.Key] {
			t.Fatalf("duplicate option key %s", o.Key)
		}
		seen[o.Key] = true
		if o.Comment == "" {
			t.Fatalf("option %s has no comment", o.Key)
		}
	}
}
