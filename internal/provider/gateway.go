package provider

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/mkravtsov/contentgen/internal/config"
)

type gateway struct {
	providers        map[string]Provider
	defaultProvider  string
	fallbackProvider string
	maxRetries       int
	timeout          time.Duration
}

// NewGateway builds the routing gateway from configured API keys. A
// provider without a key is simply not registered.
func NewGateway(cfg config.ProviderConfig) Gateway {
	g := &gateway{
		providers:        make(map[string]Provider),
		defaultProvider:  cfg.DefaultProvider,
		fallbackProvider: cfg.FallbackProvider,
		maxRetries:       cfg.MaxRetries,
		timeout:          time.Duration(cfg.TimeoutSeconds) * time.Second,
	}

	if cfg.OpenAIKey != "" {
		g.providers["openai"] = NewOpenAIProvider(cfg.OpenAIKey, cfg.Model)
	}
	if cfg.AnthropicKey != "" {
		g.providers["anthropic"] = NewAnthropicProvider(cfg.AnthropicKey, cfg.Model)
	}

	return g
}

func (g *gateway) Provider(name string) (Provider, error) {
	p, ok := g.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not configured", name)
	}
	return p, nil
}

func (g *gateway) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	resp, err := g.generateWithRetry(ctx, g.defaultProvider, req)
	if err != nil && g.fallbackProvider != "" && g.fallbackProvider != g.defaultProvider {
		slog.Warn("primary provider failed, trying fallback",
			"primary", g.defaultProvider,
			"fallback", g.fallbackProvider,
			"error", err,
		)
		return g.generateWithRetry(ctx, g.fallbackProvider, req)
	}
	return resp, err
}

func (g *gateway) generateWithRetry(ctx context.Context, providerName string, req GenerateRequest) (*GenerateResponse, error) {
	p, err := g.Provider(providerName)
	if err != nil {
		return nil, err
	}

	attempts := uint(g.maxRetries + 1)
	if attempts < 1 {
		attempts = 1
	}

	resp, err := retry.DoWithData(
		func() (*GenerateResponse, error) {
			callCtx := ctx
			if g.timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, g.timeout)
				defer cancel()
			}
			return p.Generate(callCtx, req)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Debug("retrying provider call", "provider", providerName, "attempt", n, "error", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("all retries exhausted for %s: %w", providerName, err)
	}
	return resp, nil
}
