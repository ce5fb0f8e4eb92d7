package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/KaramelBytes/insightsheet-cli/internal/ai"
	cfgpkg "github.com/KaramelBytes/insightsheet-cli/internal/config"
)

type runtimeOptions struct {
	ProviderFlag string
	OllamaHost   string
	BaseURL      string
	NoCache      bool
}

// newRuntime is swapped out in tests.
var newRuntime = buildRuntime

func buildRuntime(cfg *cfgpkg.Global, opts runtimeOptions) (ai.Runtime, string, error) {
	rc := ai.RuntimeConfig{
		HTTPTimeout: 60 * time.Second,
		RetryMax:    3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    4 * time.Second,
		BaseURL:     strings.TrimSpace(opts.BaseURL),
	}
	if cfg != nil {
		if cfg.HTTPTimeoutSec > 0 {
			rc.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSec) * time.Second
		}
		if cfg.RetryMaxAttempts > 0 {
			rc.RetryMax = cfg.RetryMaxAttempts
		}
		if cfg.RetryBaseDelayMs > 0 {
			rc.BaseDelay = time.Duration(cfg.RetryBaseDelayMs) * time.Millisecond
		}
		if cfg.RetryMaxDelayMs > 0 {
			rc.MaxDelay = time.Duration(cfg.RetryMaxDelayMs) * time.Millisecond
		}
		rc.APIKey = cfg.APIKey
		rc.GeminiAPIKey = cfg.GeminiAPIKey
		rc.Host = cfg.OllamaHost
		if !opts.NoCache {
			rc.CacheSize = cfg.CacheSize
		}
	}
	if rc.APIKey == "" {
		rc.APIKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if rc.GeminiAPIKey == "" {
		rc.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if h := strings.TrimSpace(opts.OllamaHost); h != "" {
		rc.Host = h
	}
	if rc.Host == "" {
		rc.Host = ai.DefaultOllamaHost
	}

	name := strings.TrimSpace(opts.ProviderFlag)
	if name == "" && cfg != nil {
		name = cfg.DefaultProvider
	}
	if name == "" {
		name = ai.ProviderOpenRouter
	}
	provider, err := cfgpkg.NormalizeProvider(name)
	if err != nil {
		return nil, name, err
	}
	rt, err := ai.GetRuntime(provider, rc)
	if err != nil {
		return nil, provider, err
	}
	return rt, provider, nil
}

func selectModel(cfg *cfgpkg.Global, provider, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if cfg != nil && cfg.DefaultModel != "" {
		return cfg.DefaultModel
	}
	return ai.DefaultModel(provider)
}

func selectMaxTokens(cfg *cfgpkg.Global, explicit int) int {
	if explicit > 0 {
		return explicit
	}
	if cfg != nil && cfg.MaxTokens > 0 {
		return cfg.MaxTokens
	}
	return 1024
}

func selectTemperature(cfg *cfgpkg.Global, explicit float64, changed bool) float64 {
	if changed {
		return explicit
	}
	if cfg != nil {
		return cfg.Temperature
	}
	return 0.2
}

// commandContext bounds an LLM call by the configured HTTP timeout and retries.
func commandContext(cfg *cfgpkg.Global) (context.Context, context.CancelFunc) {
	timeout := 180 * time.Second
	if cfg != nil && cfg.HTTPTimeoutSec > 0 {
		attempts := cfg.RetryMaxAttempts
		if attempts < 1 {
			attempts = 1
		}
		timeout = time.Duration(cfg.HTTPTimeoutSec*(attempts+1)) * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

func reportCache(w io.Writer, rt ai.Runtime) {
	if c, ok := rt.(*ai.CachedRuntime); ok {
		hits, misses := c.Stats()
		fmt.Fprintf(w, "cache: %d hit(s), %d miss(es)\n", hits, misses)
	}
}
