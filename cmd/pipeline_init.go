package main

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/capability"
	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/cost"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/internal/registry"
	anthropicpkg "github.com/sells-group/leadgen-cli/pkg/anthropic"
)

var (
	pipelineCache     *pipeline.Cache
	pipelineCacheOnce sync.Once
)

// getPipeline returns the cached pipeline for the configured credentials,
// building one on first use. It is called from concurrent request handlers,
// so the cache itself is initialized exactly once. Credentials flow in
// through config only; no component reads the process environment itself.
func getPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic key is required (set LEADGEN_ANTHROPIC_KEY)")
	}

	pipelineCacheOnce.Do(func() {
		pipelineCache = pipeline.NewCache(time.Duration(cfg.Cache.TTLMinutes) * time.Minute)
	})

	creds := capability.Credentials{SerperKey: cfg.Serper.Key}
	key := pipeline.CacheKey(cfg.Anthropic.Key, creds)

	return pipelineCache.Get(key, func() (*pipeline.Pipeline, error) {
		reg, err := registry.Load(cfg.Registry.Path)
		if err != nil {
			return nil, eris.Wrap(err, "load role registry")
		}

		caps := capability.NewRegistry(cfg.Serper, cfg.Reader).Resolve(creds)
		client := anthropicpkg.NewClient(cfg.Anthropic.Key)

		return pipeline.New(cfg.Anthropic, pricingRates(cfg.Pricing), reg, caps, client)
	})
}

// pricingRates converts configured pricing into cost rates, falling back to
// the built-in table when none is configured.
func pricingRates(p config.PricingConfig) cost.Rates {
	if len(p.Anthropic) == 0 {
		return cost.DefaultRates()
	}
	rates := make(cost.Rates, len(p.Anthropic))
	for name, mp := range p.Anthropic {
		rates[name] = cost.ModelRate{Input: mp.Input, Output: mp.Output}
	}
	return rates
}
