// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scoring computes the heuristic quality score that ranks
// normalized items. Formulas are per-source and share a common component
// basis: age, engagement ratio, length, and a hidden-gem bonus, with
// domain-character signals for web pages. All weights and breakpoints
// come from the ScoringConfig; the scorer itself holds no tunables.
package scoring

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/preslop/preslop/pkg/types"
)

// Badge labels attached when a component fires.
const (
	BadgeVintage        = "vintage"
	BadgeGoldenEra      = "golden era"
	BadgeDeepDiscussion = "deep discussion"
	BadgeEngagedViewers = "engaged viewers"
	BadgeLongForm       = "long-form"
	BadgeHiddenGem      = "hidden gem"
	BadgePersonalBlog   = "personal blog"
	BadgeNicheDomain    = "niche domain"
)

// UnsupportedSourceError reports a Score call with a source the scorer
// has no formula for. It signals a programming or configuration fault,
// not bad data.
type UnsupportedSourceError struct {
	Source types.Source
}

func (e *UnsupportedSourceError) Error() string {
	return fmt.Sprintf("no scoring formula for source %q", e.Source)
}

// Scorer scores ContentItems. It is pure and safe for concurrent use;
// the config it is built from is never modified.
type Scorer struct {
	cfg types.ScoringConfig
}

// New returns a Scorer using the given policy.
func New(cfg types.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score computes the quality score and badge set for one item. Identical
// items always produce identical results; every valid item produces a
// finite score. The only error is *UnsupportedSourceError.
func (s *Scorer) Score(item types.ContentItem) (float64, []string, error) {
	switch item.Source {
	case types.SourceTextDiscussion:
		score, badges := s.scoreText(item)
		return score, badges, nil
	case types.SourceVideo:
		score, badges := s.scoreVideo(item)
		return score, badges, nil
	case types.SourceWebPage:
		score, badges := s.scoreWeb(item)
		return score, badges, nil
	default:
		return 0, nil, &UnsupportedSourceError{Source: item.Source}
	}
}

// scoreText grades a discussion post: 0-90 with the default config.
func (s *Scorer) scoreText(item types.ContentItem) (float64, []string) {
	score, badges := s.agePoints(item.PublishedAt)

	pts, top := s.ratioPoints(item.EngagementSecondary, item.EngagementPrimary, s.cfg.TextRatioTiers)
	score += pts
	if top {
		badges = append(badges, BadgeDeepDiscussion)
	}

	pts, top = s.lengthPoints(item.LengthMetric, s.cfg.TextLengthTiers)
	score += pts
	if top {
		badges = append(badges, BadgeLongForm)
	}

	pts, fired := s.gemPoints(item.EngagementPrimary, item.EngagementSecondary, s.cfg.TextGem)
	score += pts
	if fired {
		badges = append(badges, BadgeHiddenGem)
	}

	return score, badges
}

// scoreVideo grades a video: 0-100 with the default config. Breadth is
// views; depth is likes plus comments, degrading to whichever is known.
func (s *Scorer) scoreVideo(item types.ContentItem) (float64, []string) {
	score, badges := s.agePoints(item.PublishedAt)

	depth := combineKnown(item.EngagementPrimary, item.EngagementSecondary)
	pts, top := s.ratioPoints(depth, item.VolumeMetric, s.cfg.VideoRatioTiers)
	score += pts
	if top {
		badges = append(badges, BadgeEngagedViewers)
	}

	pts, top = s.lengthPoints(item.LengthMetric, s.cfg.VideoLengthTiers)
	score += pts
	if top {
		badges = append(badges, BadgeLongForm)
	}

	pts, fired := s.gemPoints(item.VolumeMetric, item.EngagementSecondary, s.cfg.VideoGem)
	score += pts
	if fired {
		badges = append(badges, BadgeHiddenGem)
	}

	return score, badges
}

// scoreWeb grades a web page: 0-90 with the default config. Web pages
// carry no engagement metrics, so the ratio component is always the
// neutral contribution. Domain signals may push the sum negative; the
// result is clamped at zero.
func (s *Scorer) scoreWeb(item types.ContentItem) (float64, []string) {
	score, badges := s.agePoints(item.PublishedAt)
	score += s.cfg.RatioNeutralPoints

	pts, top := s.lengthPoints(item.LengthMetric, s.cfg.WebLengthTiers)
	score += pts
	if top {
		badges = append(badges, BadgeLongForm)
	}

	pts, domainBadges := s.domainPoints(item.URL)
	score += pts
	badges = append(badges, domainBadges...)

	if score < 0 {
		score = 0
	}
	return score, badges
}

// agePoints returns the base age tier plus the golden-window bonus. The
// tier table is ordered by ascending MaxYear, so earlier publication
// never scores lower. Items dated at or past every tier contribute zero;
// an unknown date takes the fixed middle contribution.
func (s *Scorer) agePoints(published time.Time) (float64, []string) {
	if published.IsZero() {
		return s.cfg.UnknownDatePoints, nil
	}

	year := published.Year()
	var pts float64
	for _, tier := range s.cfg.AgeTiers {
		if year <= tier.MaxYear {
			pts = tier.Points
			break
		}
	}

	var badges []string
	if pts > 0 {
		badges = append(badges, BadgeVintage)
	}
	if year >= s.cfg.GoldenWindowStart && year <= s.cfg.GoldenWindowEnd {
		pts += s.cfg.GoldenWindowBonus
		badges = append(badges, BadgeGoldenEra)
	}
	return pts, badges
}

// ratioPoints grades depth-per-breadth engagement. Zero or unknown
// breadth, or unknown depth, takes the neutral contribution rather than
// failing. The second return reports whether the top tier matched.
func (s *Scorer) ratioPoints(depth, breadth int64, tiers []types.RatioTier) (float64, bool) {
	if breadth <= 0 || depth < 0 {
		return s.cfg.RatioNeutralPoints, false
	}

	ratio := float64(depth) / float64(breadth)
	for i, tier := range tiers {
		if ratio >= tier.Min {
			return tier.Points, i == 0
		}
	}
	return 0, false
}

// lengthPoints grades content depth against saturating tiers. Unknown
// length contributes nothing.
func (s *Scorer) lengthPoints(length int64, tiers []types.LengthTier) (float64, bool) {
	if length < 0 {
		return 0, false
	}
	for i, tier := range tiers {
		if length >= tier.Min {
			return tier.Points, i == 0
		}
	}
	return 0, false
}

// gemPoints awards the hidden-gem bonus: low breadth with real depth.
// Both metrics must be known; the rule never fires on MetricUnknown.
func (s *Scorer) gemPoints(breadth, depth int64, rule types.GemRule) (float64, bool) {
	if breadth < 0 || depth < 0 {
		return 0, false
	}
	if breadth < rule.MaxBreadth && depth >= rule.MinDepth {
		return rule.Points, true
	}
	return 0, false
}

// domainPoints applies host-based character signals for web pages.
func (s *Scorer) domainPoints(rawURL string) (float64, []string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return 0, nil
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return 0, nil
	}

	var pts float64
	var badges []string

	for _, b := range s.cfg.PersonalBlogHosts {
		if strings.Contains(host, b) {
			pts += s.cfg.PersonalBlogPoints
			badges = append(badges, BadgePersonalBlog)
			break
		}
	}
	for _, tld := range s.cfg.NicheTLDs {
		if strings.HasSuffix(host, tld) {
			pts += s.cfg.NicheTLDPoints
			badges = append(badges, BadgeNicheDomain)
			break
		}
	}
	for _, farm := range s.cfg.ContentFarmHosts {
		if strings.Contains(host, farm) {
			pts -= s.cfg.ContentFarmPenalty
			break
		}
	}
	return pts, badges
}

// combineKnown sums two metrics, ignoring unknown ones. Both unknown
// yields MetricUnknown.
func combineKnown(a, b int64) int64 {
	switch {
	case a >= 0 && b >= 0:
		return a + b
	case a >= 0:
		return a
	case b >= 0:
		return b
	default:
		return types.MetricUnknown
	}
}
