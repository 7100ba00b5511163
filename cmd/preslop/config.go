package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/preslop/preslop/pkg/types"
)

// setDefaults registers every scalar config key with viper so that
// PRESLOP_* environment variables are picked up by Unmarshal even when
// no config file sets them. Scoring tiers are nested structures and can
// only come from the file or the built-in defaults.
func setDefaults() {
	d := types.DefaultConfig()

	viper.SetDefault("server.addr", d.Server.Addr)

	viper.SetDefault("search.timeout", d.Search.Timeout)
	viper.SetDefault("search.user_agent", d.Search.UserAgent)
	viper.SetDefault("search.max_results", d.Search.MaxResults)
	viper.SetDefault("search.provider_timeout", d.Search.ProviderTimeout)
	viper.SetDefault("search.overall_timeout", d.Search.OverallTimeout)
	viper.SetDefault("search.cutoff_year", d.Search.CutoffYear)
	viper.SetDefault("search.reddit_client_id", "")
	viper.SetDefault("search.reddit_client_secret", "")
	viper.SetDefault("search.youtube_api_key", "")
	viper.SetDefault("search.google_api_key", "")
	viper.SetDefault("search.google_cse_id", "")

	viper.SetDefault("cache.enabled", d.Cache.Enabled)
	viper.SetDefault("cache.path", d.Cache.Path)
	viper.SetDefault("cache.ttl", d.Cache.TTL)

	viper.SetDefault("topics.file", d.Topics.File)

	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.development", d.Log.Development)
}

// loadConfig layers the config file and PRESLOP_* environment variables
// over the built-in defaults, then fills any credentials still empty
// from .secrets/.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Search.RedditClientID = secretDefault("reddit-client-id", cfg.Search.RedditClientID)
	cfg.Search.RedditClientSecret = secretDefault("reddit-client-secret", cfg.Search.RedditClientSecret)
	cfg.Search.YouTubeAPIKey = secretDefault("youtube-api-key", cfg.Search.YouTubeAPIKey)
	cfg.Search.GoogleAPIKey = secretDefault("google-api-key", cfg.Search.GoogleAPIKey)
	cfg.Search.GoogleCSEID = secretDefault("google-cse-id", cfg.Search.GoogleCSEID)

	return cfg, nil
}
