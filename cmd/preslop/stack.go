package main

import (
	"go.uber.org/zap"

	"github.com/preslop/preslop/internal/aggregate"
	"github.com/preslop/preslop/internal/cache"
	"github.com/preslop/preslop/internal/provider"
	"github.com/preslop/preslop/internal/scoring"
	"github.com/preslop/preslop/internal/telemetry"
	"github.com/preslop/preslop/internal/topics"
	"github.com/preslop/preslop/pkg/types"
)

// stack bundles the wired search components shared by the serve,
// search, and surprise subcommands.
type stack struct {
	agg       *aggregate.Aggregator
	providers []provider.Provider
	store     *cache.Store
}

// buildStack constructs the providers, optional response cache, and
// aggregator from cfg. metrics may be nil for one-shot CLI runs.
func buildStack(cfg types.Config, log *zap.Logger, metrics *telemetry.Metrics) (*stack, error) {
	catalog, err := topics.Load(cfg.Topics.File)
	if err != nil {
		return nil, err
	}

	providers := []provider.Provider{
		provider.NewReddit(cfg.Search),
		provider.NewYouTube(cfg.Search),
		provider.NewGoogle(cfg.Search),
	}

	var store *cache.Store
	if cfg.Cache.Enabled {
		store, err = cache.Open(cfg.Cache)
		if err != nil {
			return nil, err
		}
		for i, p := range providers {
			providers[i] = cache.Wrap(p, store, log, metrics)
		}
	}

	agg := aggregate.New(providers, scoring.New(cfg.Scoring), catalog, cfg.Search, log, metrics)

	return &stack{agg: agg, providers: providers, store: store}, nil
}

// Close releases the cache database if one was opened.
func (s *stack) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
