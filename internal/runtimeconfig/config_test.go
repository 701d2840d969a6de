package runtimeconfig_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-pagekit/internal/runtimeconfig"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Storage.Provider != "bun" {
		t.Fatalf("expected bun storage default, got %q", cfg.Storage.Provider)
	}
	if cfg.Events.Async {
		t.Fatalf("expected synchronous events by default")
	}
	if !cfg.Features.Search || !cfg.Features.Logger {
		t.Fatalf("expected search and logger features enabled by default")
	}
}

func TestValidateRejectsInconsistentConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name: "index path without search feature",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Search = false
				cfg.Search.IndexPath = "/tmp/pages.bleve"
			},
			want: runtimeconfig.ErrSearchFeatureRequired,
		},
		{
			name: "negative cache ttl",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Cache.DefaultTTL = -time.Second
			},
			want: runtimeconfig.ErrCacheTTLInvalid,
		},
		{
			name: "negative async queue depth",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Events.Async = true
				cfg.Events.QueueDepth = -1
			},
			want: runtimeconfig.ErrAsyncEventsDepthInvalid,
		},
		{
			name: "missing logging provider",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Logging.Provider = ""
			},
			want: runtimeconfig.ErrLoggingProviderRequired,
		},
		{
			name: "unknown logging provider",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Logging.Provider = "syslog"
			},
			want: runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name: "invalid logging level",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Logging.Level = "verbose"
			},
			want: runtimeconfig.ErrLoggingLevelInvalid,
		},
		{
			name: "invalid gologger format",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Logging.Provider = "gologger"
				cfg.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
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

func TestValidateNormalizesProviderAliases(t *testing.T) {
	for _, provider := range []string{"stdout", "GLOG", " noop ", "none"} {
		cfg := runtimeconfig.DefaultConfig()
		cfg.Logging.Provider = provider
		if err := cfg.Validate(); err != nil {
			t.Fatalf("provider alias %q must validate: %v", provider, err)
		}
	}
}

func TestNormalizedProviderFoldsAliases(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"stdout", "console"},
		{"Console", "console"},
		{"GLOG", "gologger"},
		{"gologger", "gologger"},
		{" noop ", "noop"},
		{"none", "noop"},
	}
	for _, tc := range cases {
		cfg := runtimeconfig.LoggingConfig{Provider: tc.raw}
		if got := cfg.NormalizedProvider(); got != tc.want {
			t.Fatalf("provider %q: expected %q, got %q", tc.raw, tc.want, got)
		}
	}
}

func TestValidateSkipsLoggingWhenFeatureDisabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Logger = false
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled logger feature must skip provider checks: %v", err)
	}
}
