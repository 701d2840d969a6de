package pagekit

import "github.com/goliatone/go-pagekit/internal/runtimeconfig"

var (
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrSearchFeatureRequired   = runtimeconfig.ErrSearchFeatureRequired
	ErrAsyncEventsDepthInvalid = runtimeconfig.ErrAsyncEventsDepthInvalid
	ErrCacheTTLInvalid         = runtimeconfig.ErrCacheTTLInvalid
)

type (
	Config        = runtimeconfig.Config
	StorageConfig = runtimeconfig.StorageConfig
	CacheConfig   = runtimeconfig.CacheConfig
	SearchConfig  = runtimeconfig.SearchConfig
	EventsConfig  = runtimeconfig.EventsConfig
	Features      = runtimeconfig.Features
	LoggingConfig = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the opinionated defaults: synchronous events, an
// in-memory search index, console logging.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
