package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "preslop/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SearchConfig holds settings for the search aggregation stage and the
// provider credentials. A provider whose credentials are empty is treated
// as disabled rather than misconfigured.
type SearchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxResults is the maximum number of ranked results to return (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// ProviderTimeout bounds each individual provider call (default 10s).
	ProviderTimeout time.Duration `json:"provider_timeout" yaml:"provider_timeout" mapstructure:"provider_timeout"`

	// OverallTimeout bounds the whole fan-out. It is a small multiple of
	// ProviderTimeout, not the sum across providers (default 15s).
	OverallTimeout time.Duration `json:"overall_timeout" yaml:"overall_timeout" mapstructure:"overall_timeout"`

	// CutoffYear excludes content published in or after this year
	// (default 2016). Providers filter before normalization.
	CutoffYear int `json:"cutoff_year" yaml:"cutoff_year" mapstructure:"cutoff_year"`

	// RedditClientID and RedditClientSecret are OAuth2 application
	// credentials for the Reddit API.
	RedditClientID     string `json:"reddit_client_id,omitempty" yaml:"reddit_client_id,omitempty" mapstructure:"reddit_client_id"`
	RedditClientSecret string `json:"reddit_client_secret,omitempty" yaml:"reddit_client_secret,omitempty" mapstructure:"reddit_client_secret"`

	// YouTubeAPIKey authenticates YouTube Data API v3 requests.
	YouTubeAPIKey string `json:"youtube_api_key,omitempty" yaml:"youtube_api_key,omitempty" mapstructure:"youtube_api_key"`

	// GoogleAPIKey and GoogleCSEID identify a Google Custom Search
	// Engine. Both are required for the web provider.
	GoogleAPIKey string `json:"google_api_key,omitempty" yaml:"google_api_key,omitempty" mapstructure:"google_api_key"`
	GoogleCSEID  string `json:"google_cse_id,omitempty" yaml:"google_cse_id,omitempty" mapstructure:"google_cse_id"`
}

// AgeTier awards Points to items published in or before MaxYear. Tiers are
// ordered by ascending MaxYear and the first matching tier wins, so points
// never decrease as publication moves earlier.
type AgeTier struct {
	MaxYear int     `json:"max_year" yaml:"max_year" mapstructure:"max_year"`
	Points  float64 `json:"points" yaml:"points" mapstructure:"points"`
}

// RatioTier awards Points when an engagement ratio reaches Min. Tiers are
// ordered by descending Min and the first matching tier wins.
type RatioTier struct {
	Min    float64 `json:"min" yaml:"min" mapstructure:"min"`
	Points float64 `json:"points" yaml:"points" mapstructure:"points"`
}

// LengthTier awards Points when a length metric reaches Min. Tiers are
// ordered by descending Min; contributions saturate at the top tier.
type LengthTier struct {
	Min    int64   `json:"min" yaml:"min" mapstructure:"min"`
	Points float64 `json:"points" yaml:"points" mapstructure:"points"`
}

// GemRule describes the hidden-gem bonus: content whose breadth metric is
// below MaxBreadth while its depth metric reaches MinDepth. Both metrics
// must be known for the rule to fire.
type GemRule struct {
	MaxBreadth int64   `json:"max_breadth" yaml:"max_breadth" mapstructure:"max_breadth"`
	MinDepth   int64   `json:"min_depth" yaml:"min_depth" mapstructure:"min_depth"`
	Points     float64 `json:"points" yaml:"points" mapstructure:"points"`
}

// ScoringConfig holds every weight and breakpoint the quality score uses.
// The scorer treats it as immutable; tests construct small variants of it
// instead of patching package state. Score ranges with the default
// values: text discussions 0-90, videos 0-100, web pages 0-90.
type ScoringConfig struct {
	// AgeTiers is the base age contribution, ascending by MaxYear.
	AgeTiers []AgeTier `json:"age_tiers" yaml:"age_tiers" mapstructure:"age_tiers"`

	// UnknownDatePoints is the fixed age contribution for items with no
	// publication date. Between the newest and oldest tier by default.
	UnknownDatePoints float64 `json:"unknown_date_points" yaml:"unknown_date_points" mapstructure:"unknown_date_points"`

	// GoldenWindowStart and GoldenWindowEnd bound the favored era
	// (inclusive years); items inside it earn GoldenWindowBonus on top
	// of their age tier.
	GoldenWindowStart int     `json:"golden_window_start" yaml:"golden_window_start" mapstructure:"golden_window_start"`
	GoldenWindowEnd   int     `json:"golden_window_end" yaml:"golden_window_end" mapstructure:"golden_window_end"`
	GoldenWindowBonus float64 `json:"golden_window_bonus" yaml:"golden_window_bonus" mapstructure:"golden_window_bonus"`

	// RatioNeutralPoints is the engagement-ratio contribution when the
	// breadth metric is zero or unknown, and for sources that have no
	// engagement metrics at all.
	RatioNeutralPoints float64 `json:"ratio_neutral_points" yaml:"ratio_neutral_points" mapstructure:"ratio_neutral_points"`

	// TextRatioTiers grade comments per upvote; VideoRatioTiers grade
	// (likes+comments) per view.
	TextRatioTiers  []RatioTier `json:"text_ratio_tiers" yaml:"text_ratio_tiers" mapstructure:"text_ratio_tiers"`
	VideoRatioTiers []RatioTier `json:"video_ratio_tiers" yaml:"video_ratio_tiers" mapstructure:"video_ratio_tiers"`

	// Length tiers per source: characters for text and web, seconds for
	// video.
	TextLengthTiers  []LengthTier `json:"text_length_tiers" yaml:"text_length_tiers" mapstructure:"text_length_tiers"`
	VideoLengthTiers []LengthTier `json:"video_length_tiers" yaml:"video_length_tiers" mapstructure:"video_length_tiers"`
	WebLengthTiers   []LengthTier `json:"web_length_tiers" yaml:"web_length_tiers" mapstructure:"web_length_tiers"`

	// TextGem fires on low upvotes with real comment activity; VideoGem
	// fires on low views with real comment activity.
	TextGem  GemRule `json:"text_gem" yaml:"text_gem" mapstructure:"text_gem"`
	VideoGem GemRule `json:"video_gem" yaml:"video_gem" mapstructure:"video_gem"`

	// Domain-character signals for web pages. Host substrings, matched
	// case-insensitively against the URL host.
	PersonalBlogHosts  []string `json:"personal_blog_hosts" yaml:"personal_blog_hosts" mapstructure:"personal_blog_hosts"`
	PersonalBlogPoints float64  `json:"personal_blog_points" yaml:"personal_blog_points" mapstructure:"personal_blog_points"`
	NicheTLDs          []string `json:"niche_tlds" yaml:"niche_tlds" mapstructure:"niche_tlds"`
	NicheTLDPoints     float64  `json:"niche_tld_points" yaml:"niche_tld_points" mapstructure:"niche_tld_points"`
	ContentFarmHosts   []string `json:"content_farm_hosts" yaml:"content_farm_hosts" mapstructure:"content_farm_hosts"`
	ContentFarmPenalty float64  `json:"content_farm_penalty" yaml:"content_farm_penalty" mapstructure:"content_farm_penalty"`
}

// DefaultScoringConfig returns the stock scoring policy.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		AgeTiers: []AgeTier{
			{MaxYear: 1999, Points: 18},
			{MaxYear: 2005, Points: 15},
			{MaxYear: 2009, Points: 12},
			{MaxYear: 2013, Points: 10},
			{MaxYear: 2015, Points: 6},
		},
		UnknownDatePoints: 9,
		GoldenWindowStart: 2010,
		GoldenWindowEnd:   2013,
		GoldenWindowBonus: 15,

		RatioNeutralPoints: 10,
		TextRatioTiers: []RatioTier{
			{Min: 0.5, Points: 30},
			{Min: 0.2, Points: 20},
			{Min: 0.05, Points: 10},
		},
		VideoRatioTiers: []RatioTier{
			{Min: 0.05, Points: 30},
			{Min: 0.02, Points: 20},
			{Min: 0.005, Points: 10},
		},

		TextLengthTiers: []LengthTier{
			{Min: 2000, Points: 20},
			{Min: 1000, Points: 12},
		},
		VideoLengthTiers: []LengthTier{
			{Min: 600, Points: 20},
			{Min: 300, Points: 10},
		},
		WebLengthTiers: []LengthTier{
			{Min: 5000, Points: 25},
			{Min: 2000, Points: 15},
		},

		TextGem:  GemRule{MaxBreadth: 500, MinDepth: 20, Points: 15},
		VideoGem: GemRule{MaxBreadth: 10000, MinDepth: 50, Points: 25},

		PersonalBlogHosts:  []string{"blogspot", "wordpress", "typepad", "livejournal", "tumblr"},
		PersonalBlogPoints: 20,
		NicheTLDs:          []string{".org", ".edu", ".net"},
		NicheTLDPoints:     10,
		ContentFarmHosts:   []string{"ehow", "buzzfeed", "wikihow", "listverse"},
		ContentFarmPenalty: 20,
	}
}

// CacheConfig holds settings for the raw provider-response cache.
type CacheConfig struct {
	// Enabled turns the cache on. When false no database is opened.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Path is the SQLite database file (default "preslop-cache.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// TTL is how long a cached provider response stays fresh (default 1h).
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
}

// ServerConfig holds settings for the HTTP server.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// TopicsConfig holds settings for the surprise topic catalog.
type TopicsConfig struct {
	// File is an optional YAML file overriding the built-in topic list.
	File string `json:"file,omitempty" yaml:"file,omitempty" mapstructure:"file"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is the minimum level: debug, info, warn, or error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Development switches to a human-oriented console encoding.
	Development bool `json:"development" yaml:"development" mapstructure:"development"`
}

// Config groups all stage configurations for the service.
type Config struct {
	Server  ServerConfig  `json:"server" yaml:"server" mapstructure:"server"`
	Search  SearchConfig  `json:"search" yaml:"search" mapstructure:"search"`
	Scoring ScoringConfig `json:"scoring" yaml:"scoring" mapstructure:"scoring"`
	Cache   CacheConfig   `json:"cache" yaml:"cache" mapstructure:"cache"`
	Topics  TopicsConfig  `json:"topics" yaml:"topics" mapstructure:"topics"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the service defaults. Viper layering in the CLI
// starts from these values; a config file and PRESLOP_* environment
// variables override them.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Search: SearchConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   10 * time.Second,
				UserAgent: "preslop/0.1",
			},
			MaxResults:      20,
			ProviderTimeout: 10 * time.Second,
			OverallTimeout:  15 * time.Second,
			CutoffYear:      2016,
		},
		Scoring: DefaultScoringConfig(),
		Cache: CacheConfig{
			Path: "preslop-cache.db",
			TTL:  time.Hour,
		},
		Log: LogConfig{Level: "info"},
	}
}
