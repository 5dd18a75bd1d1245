// Package capability resolves which optional tools (web search, page scrape)
// are available given the supplied credentials. Capability initialization is
// best-effort: a provider that fails to come up is logged and absent, never
// an error to the caller.
package capability

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/model"
)

// Credentials are the optional secrets controlling capability availability.
type Credentials struct {
	SerperKey string
}

// Identity returns a stable string identifying this credential set, used as
// part of the pipeline cache key. It is not a secret-safe hash; callers must
// not log it.
func (c Credentials) Identity() string {
	return c.SerperKey
}

// Searcher is the search capability: free-text query in, formatted results out.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Scraper is the scrape capability: URL in, page markdown out.
type Scraper interface {
	Scrape(ctx context.Context, url string) (string, error)
}

// Set is the subset of capabilities actually usable for a run.
type Set struct {
	searcher Searcher
	scraper  Scraper
}

// Has reports whether the named capability is available.
func (s Set) Has(name model.CapabilityName) bool {
	switch name {
	case model.CapabilitySearch:
		return s.searcher != nil
	case model.CapabilityScrape:
		return s.scraper != nil
	default:
		return false
	}
}

// Names lists the available capabilities.
func (s Set) Names() []model.CapabilityName {
	var names []model.CapabilityName
	if s.searcher != nil {
		names = append(names, model.CapabilitySearch)
	}
	if s.scraper != nil {
		names = append(names, model.CapabilityScrape)
	}
	return names
}

// Searcher returns the search provider, or nil when unavailable.
func (s Set) Searcher() Searcher { return s.searcher }

// Scraper returns the scrape provider, or nil when unavailable.
func (s Set) Scraper() Scraper { return s.scraper }

// Registry builds capability sets from credentials. Provider constructors are
// swappable for tests.
type Registry struct {
	serperCfg config.SerperConfig
	readerCfg config.ReaderConfig

	newSearcher func(key string, cfg config.SerperConfig) (Searcher, error)
	newScraper  func(cfg config.ReaderConfig) (Scraper, error)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithSearcherFactory overrides the search provider constructor.
func WithSearcherFactory(fn func(key string, cfg config.SerperConfig) (Searcher, error)) RegistryOption {
	return func(r *Registry) { r.newSearcher = fn }
}

// WithScraperFactory overrides the scrape provider constructor.
func WithScraperFactory(fn func(cfg config.ReaderConfig) (Scraper, error)) RegistryOption {
	return func(r *Registry) { r.newScraper = fn }
}

// NewRegistry creates a capability registry.
func NewRegistry(serperCfg config.SerperConfig, readerCfg config.ReaderConfig, opts ...RegistryOption) *Registry {
	r := &Registry{
		serperCfg:   serperCfg,
		readerCfg:   readerCfg,
		newSearcher: newSerperSearcher,
		newScraper:  newReaderScraper,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve computes the capability set for the given credentials. Each
// capability is attempted independently; failures are logged and the
// capability is absent. Resolve never returns an error and is idempotent.
func (r *Registry) Resolve(creds Credentials) Set {
	log := zap.L()
	var set Set

	if creds.SerperKey == "" {
		log.Info("capability: search key not provided, search will not be available")
	} else {
		searcher, err := r.newSearcher(creds.SerperKey, r.serperCfg)
		if err != nil {
			log.Warn("capability: search provider init failed", zap.Error(err))
		} else {
			set.searcher = searcher
		}
	}

	scraper, err := r.newScraper(r.readerCfg)
	if err != nil {
		log.Warn("capability: scrape provider init failed", zap.Error(err))
	} else {
		set.scraper = scraper
	}

	log.Info("capability: resolved",
		zap.Bool("search", set.Has(model.CapabilitySearch)),
		zap.Bool("scrape", set.Has(model.CapabilityScrape)),
	)
	return set
}
