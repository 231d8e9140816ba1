package portfolio

import "github.com/goliatone/go-portfolio/internal/runtimeconfig"

var (
	ErrStorageDriverUnknown       = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired         = runtimeconfig.ErrStorageDSNRequired
	ErrCacheTTLInvalid            = runtimeconfig.ErrCacheTTLInvalid
	ErrMarkdownEngineUnknown      = runtimeconfig.ErrMarkdownEngineUnknown
	ErrMarkdownContentDirRequired = runtimeconfig.ErrMarkdownContentDirRequired
	ErrPreviewLimitInvalid        = runtimeconfig.ErrPreviewLimitInvalid
	ErrContactRateInvalid         = runtimeconfig.ErrContactRateInvalid
	ErrContactMailerUnknown       = runtimeconfig.ErrContactMailerUnknown
	ErrSchedulerSpecInvalid       = runtimeconfig.ErrSchedulerSpecInvalid
	ErrHTTPAddressRequired        = runtimeconfig.ErrHTTPAddressRequired
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	SiteConfig           = runtimeconfig.SiteConfig
	StorageConfig        = runtimeconfig.StorageConfig
	CacheConfig          = runtimeconfig.CacheConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	ContactConfig        = runtimeconfig.ContactConfig
	SchedulerConfig      = runtimeconfig.SchedulerConfig
	HTTPConfig           = runtimeconfig.HTTPConfig
	RoutesConfig         = runtimeconfig.RoutesConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
	Features             = runtimeconfig.Features
)

// DefaultConfig returns a configuration that runs entirely in memory.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
