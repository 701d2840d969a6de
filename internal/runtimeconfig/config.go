package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrLoggingProviderRequired indicates logging is enabled without a provider.
var ErrLoggingProviderRequired = errors.New("pagekit config: logging provider is required when logging feature is enabled")

// ErrLoggingProviderUnknown indicates an unsupported logging provider.
var ErrLoggingProviderUnknown = errors.New("pagekit config: logging provider is invalid")

// ErrLoggingLevelInvalid indicates an unsupported logging level.
var ErrLoggingLevelInvalid = errors.New("pagekit config: logging level is invalid")

// ErrLoggingFormatInvalid indicates an unsupported logging format.
var ErrLoggingFormatInvalid = errors.New("pagekit config: logging format is invalid")

// ErrSearchFeatureRequired indicates inconsistent search configuration.
var ErrSearchFeatureRequired = errors.New("pagekit config: search feature must be enabled to configure an index path")

// ErrAsyncEventsDepthInvalid rejects non-positive event queue depths.
var ErrAsyncEventsDepthInvalid = errors.New("pagekit config: async event queue depth must be positive")

// ErrCacheTTLInvalid rejects negative cache TTLs.
var ErrCacheTTLInvalid = errors.New("pagekit config: cache ttl must be zero or positive")

// Config aggregates feature flags and adapter bindings for the module.
// Fields intentionally use simple types so host applications can extend them.
type Config struct {
	Enabled  bool
	Storage  StorageConfig
	Cache    CacheConfig
	Search   SearchConfig
	Events   EventsConfig
	Features Features
	Logging  LoggingConfig
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
}

// CacheConfig captures cache behaviour toggles for the repositories.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// SearchConfig captures index behaviour. An empty IndexPath keeps the bleve
// index in memory.
type SearchConfig struct {
	IndexPath string
}

// EventsConfig captures event delivery behaviour. Async delivery runs a
// single ordered worker; QueueDepth bounds its backlog.
type EventsConfig struct {
	Async      bool
	QueueDepth int
}

// Features toggles module functionality.
type Features struct {
	Search bool
	Logger bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// NormalizedProvider returns the canonical logging provider name after alias
// folding, so wiring code can branch on one spelling per provider.
func (c LoggingConfig) NormalizedProvider() string {
	return normalizeProvider(c.Provider)
}

// DefaultConfig returns opinionated defaults: bun storage, synchronous
// events, in-memory search, console logging.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Storage: StorageConfig{
			Provider: "bun",
		},
		Cache: CacheConfig{
			Enabled:    false,
			DefaultTTL: time.Minute,
		},
		Search: SearchConfig{},
		Events: EventsConfig{
			Async:      false,
			QueueDepth: 64,
		},
		Features: Features{
			Search: true,
			Logger: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if !cfg.Features.Search && strings.TrimSpace(cfg.Search.IndexPath) != "" {
		return ErrSearchFeatureRequired
	}
	if cfg.Events.Async && cfg.Events.QueueDepth < 0 {
		return ErrAsyncEventsDepthInvalid
	}
	if cfg.Cache.DefaultTTL < 0 {
		return ErrCacheTTLInvalid
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
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

func normalizeProvider(provider string) string {
	normalized := strings.ToLower(strings.TrimSpace(provider))
	switch normalized {
	case "console", "stdout":
		return "console"
	case "gologger", "glog":
		return "gologger"
	case "noop", "none":
		return "noop"
	}
	return normalized
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "noop":
		return true
	}
	return false
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	}
	return false
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	}
	return false
}
