// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scoring

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/preslop/preslop/pkg/types"
)

func day(year int) time.Time {
	return time.Date(year, 6, 1, 0, 0, 0, 0, time.UTC)
}

func textItem(year int, upvotes, comments, chars int64) types.ContentItem {
	return types.ContentItem{
		Source:              types.SourceTextDiscussion,
		Title:               "t",
		URL:                 "https://www.reddit.com/r/test/comments/abc/t/",
		PublishedAt:         day(year),
		EngagementPrimary:   upvotes,
		EngagementSecondary: comments,
		VolumeMetric:        types.MetricUnknown,
		LengthMetric:        chars,
	}
}

// --- bounds and determinism ---

func TestScoreBounds(t *testing.T) {
	s := New(types.DefaultScoringConfig())

	tests := []struct {
		name string
		item types.ContentItem
		max  float64
	}{
		{"text maximal", textItem(2011, 150, 80, 2500), 90},
		{"text empty metrics", textItem(2011, types.MetricUnknown, types.MetricUnknown, 0), 90},
		{"video maximal", types.ContentItem{
			Source: types.SourceVideo, Title: "v", URL: "https://www.youtube.com/watch?v=x",
			PublishedAt: day(2012), EngagementPrimary: 200, EngagementSecondary: 60,
			VolumeMetric: 5000, LengthMetric: 700,
		}, 100},
		{"video no stats", types.ContentItem{
			Source: types.SourceVideo, Title: "v", URL: "https://www.youtube.com/watch?v=y",
			PublishedAt: day(2008), EngagementPrimary: types.MetricUnknown,
			EngagementSecondary: types.MetricUnknown, VolumeMetric: types.MetricUnknown,
			LengthMetric: types.MetricUnknown,
		}, 100},
		{"web maximal", types.ContentItem{
			Source: types.SourceWebPage, Title: "w", URL: "https://essays.wordpress.org/deep",
			PublishedAt: day(2012), EngagementPrimary: types.MetricUnknown,
			EngagementSecondary: types.MetricUnknown, VolumeMetric: types.MetricUnknown,
			LengthMetric: 6000,
		}, 90},
		{"web no date", types.ContentItem{
			Source: types.SourceWebPage, Title: "w", URL: "https://example.com/page",
			EngagementPrimary: types.MetricUnknown, EngagementSecondary: types.MetricUnknown,
			VolumeMetric: types.MetricUnknown, LengthMetric: types.MetricUnknown,
		}, 90},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _, err := s.Score(tt.item)
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if score < 0 || score > tt.max {
				t.Errorf("score = %f, want within [0, %f]", score, tt.max)
			}
			if math.IsNaN(score) || math.IsInf(score, 0) {
				t.Errorf("score = %f, want finite", score)
			}
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	s := New(types.DefaultScoringConfig())
	item := textItem(2011, 150, 80, 2500)

	first, firstBadges, err := s.Score(item)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	for i := 0; i < 10; i++ {
		score, badges, err := s.Score(item)
		if err != nil {
			t.Fatalf("Score: %v", err)
		}
		if score != first {
			t.Fatalf("score changed between calls: %f then %f", first, score)
		}
		if len(badges) != len(firstBadges) {
			t.Fatalf("badges changed between calls: %v then %v", firstBadges, badges)
		}
	}
}

func TestScoreUnsupportedSource(t *testing.T) {
	s := New(types.DefaultScoringConfig())
	_, _, err := s.Score(types.ContentItem{Source: "podcast", Title: "x", URL: "https://example.com"})

	var unsupported *UnsupportedSourceError
	if !errors.As(err, &unsupported) {
		t.Fatalf("err = %v, want *UnsupportedSourceError", err)
	}
	if unsupported.Source != "podcast" {
		t.Errorf("Source = %q, want %q", unsupported.Source, "podcast")
	}
}

// --- age component ---

func TestAgeBaseMonotone(t *testing.T) {
	// With the window bonus off, earlier publication never scores lower.
	cfg := types.DefaultScoringConfig()
	cfg.GoldenWindowBonus = 0
	s := New(cfg)

	prev := math.Inf(1)
	for year := 1995; year <= 2015; year++ {
		score, _, err := s.Score(textItem(year, 1, 0, 0))
		if err != nil {
			t.Fatalf("Score(%d): %v", year, err)
		}
		if score > prev {
			t.Errorf("year %d scores %f, above year %d's %f", year, score, year-1, prev)
		}
		prev = score
	}
}

func TestGoldenWindowPeaks(t *testing.T) {
	s := New(types.DefaultScoringConfig())

	window, _, err := s.Score(textItem(2012, 1, 0, 0))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	for _, year := range []int{1995, 1999, 2003, 2007, 2009, 2014, 2015} {
		outside, _, err := s.Score(textItem(year, 1, 0, 0))
		if err != nil {
			t.Fatalf("Score(%d): %v", year, err)
		}
		if outside >= window {
			t.Errorf("year %d scores %f, want below the 2012 peak %f", year, outside, window)
		}
	}
}

func TestUnknownDateMidContribution(t *testing.T) {
	s := New(types.DefaultScoringConfig())

	item := textItem(2011, 1, 0, 0)
	item.PublishedAt = time.Time{}
	unknown, _, err := s.Score(item)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	newest, _, _ := s.Score(textItem(2015, 1, 0, 0))
	oldest, _, _ := s.Score(textItem(1995, 1, 0, 0))
	if unknown <= newest || unknown >= oldest {
		t.Errorf("unknown date scores %f, want strictly between %f and %f", unknown, newest, oldest)
	}
}

// --- engagement ratio ---

func TestRatioZeroOrUnknownBreadthIsNeutral(t *testing.T) {
	s := New(types.DefaultScoringConfig())

	// Comment counts stay below the gem threshold so only the ratio
	// component varies.
	zero, _, err := s.Score(textItem(2011, 0, 10, 0))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	unknown, _, err := s.Score(textItem(2011, types.MetricUnknown, 10, 0))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if zero != unknown {
		t.Errorf("zero breadth scored %f, unknown breadth %f; want the same neutral contribution", zero, unknown)
	}

	// Neutral sits between no-tier and top-tier.
	low, _, _ := s.Score(textItem(2011, 10000, 1, 0))
	high, _, _ := s.Score(textItem(2011, 1000, 600, 0))
	if zero <= low || zero >= high {
		t.Errorf("neutral %f, want between %f and %f", zero, low, high)
	}
}

func TestVideoRatioDegradesOnHiddenLikes(t *testing.T) {
	s := New(types.DefaultScoringConfig())

	base := types.ContentItem{
		Source: types.SourceVideo, Title: "v", URL: "https://www.youtube.com/watch?v=z",
		PublishedAt: day(2007), VolumeMetric: 1000, LengthMetric: types.MetricUnknown,
	}

	both := base
	both.EngagementPrimary = 40
	both.EngagementSecondary = 15
	withBoth, _, err := s.Score(both)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	hidden := base
	hidden.EngagementPrimary = types.MetricUnknown
	hidden.EngagementSecondary = 15
	withHidden, _, err := s.Score(hidden)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}

	// 55/1000 hits the top tier, 15/1000 a lower one; hidden likes
	// degrade the contribution without zeroing it.
	if withHidden >= withBoth {
		t.Errorf("hidden likes scored %f, want below %f", withHidden, withBoth)
	}
	none := base
	none.EngagementPrimary = types.MetricUnknown
	none.EngagementSecondary = 1
	withOne, _, err := s.Score(none)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if withHidden <= withOne {
		t.Errorf("known comments scored %f, want above the near-zero ratio's %f", withHidden, withOne)
	}
}

// --- hidden gem ---

func TestHiddenGemConditions(t *testing.T) {
	s := New(types.DefaultScoringConfig())

	tests := []struct {
		name     string
		upvotes  int64
		comments int64
		want     bool
	}{
		{"fires below breadth with depth", 150, 25, true},
		{"no depth", 150, 5, false},
		{"too broad", 5000, 80, false},
		{"unknown breadth", types.MetricUnknown, 80, false},
		{"unknown depth", 150, types.MetricUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, badges, err := s.Score(textItem(2011, tt.upvotes, tt.comments, 0))
			if err != nil {
				t.Fatalf("Score: %v", err)
			}
			if got := hasBadge(badges, BadgeHiddenGem); got != tt.want {
				t.Errorf("hidden gem fired = %v, want %v (badges %v)", got, tt.want, badges)
			}
		})
	}
}

func TestHiddenGemIndependentOfRatio(t *testing.T) {
	s := New(types.DefaultScoringConfig())

	// 80/150 = 0.53 tops the ratio tiers and also satisfies the gem rule.
	_, badges, err := s.Score(textItem(2011, 150, 80, 0))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if !hasBadge(badges, BadgeDeepDiscussion) || !hasBadge(badges, BadgeHiddenGem) {
		t.Errorf("badges = %v, want both %q and %q", badges, BadgeDeepDiscussion, BadgeHiddenGem)
	}
}

func TestGemOutranksViralFromSameEra(t *testing.T) {
	s := New(types.DefaultScoringConfig())

	gem, _, err := s.Score(textItem(2011, 150, 80, 2500))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	viral, _, err := s.Score(textItem(2011, 50000, 1000, 2500))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if gem <= viral {
		t.Errorf("gem scored %f, viral %f; want the gem strictly higher", gem, viral)
	}
}

func TestOldGemOutranksModernViral(t *testing.T) {
	s := New(types.DefaultScoringConfig())

	// Small 2011 thread with real discussion vs. a shallow 2020 hit.
	gem, _, err := s.Score(textItem(2011, 5, 50, 3000))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	viral, _, err := s.Score(textItem(2020, 10000, 20, 200))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if gem <= viral {
		t.Errorf("old gem scored %f, modern viral %f; want the gem strictly higher", gem, viral)
	}
}

// --- web domain signals ---

func TestWebDomainSignals(t *testing.T) {
	s := New(types.DefaultScoringConfig())

	web := func(u string) types.ContentItem {
		return types.ContentItem{
			Source: types.SourceWebPage, Title: "w", URL: u,
			PublishedAt: day(2012), EngagementPrimary: types.MetricUnknown,
			EngagementSecondary: types.MetricUnknown, VolumeMetric: types.MetricUnknown,
			LengthMetric: types.MetricUnknown,
		}
	}

	blog, badges, err := s.Score(web("https://curious.blogspot.com/2012/06/essay.html"))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	plain, _, err := s.Score(web("https://example.com/essay"))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if blog <= plain {
		t.Errorf("blog host scored %f, plain host %f; want blog higher", blog, plain)
	}
	if !hasBadge(badges, BadgePersonalBlog) {
		t.Errorf("badges = %v, want %q", badges, BadgePersonalBlog)
	}

	org, badges, err := s.Score(web("https://gutenberg.org/about"))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if org <= plain {
		t.Errorf(".org scored %f, .com %f; want .org higher", org, plain)
	}
	if !hasBadge(badges, BadgeNicheDomain) {
		t.Errorf("badges = %v, want %q", badges, BadgeNicheDomain)
	}

	farm, _, err := s.Score(web("https://www.ehow.com/how-to"))
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if farm >= plain {
		t.Errorf("content farm scored %f, plain host %f; want farm lower", farm, plain)
	}
	if farm < 0 {
		t.Errorf("score = %f, want clamped at zero", farm)
	}
}

func TestWebPenaltyClampsAtZero(t *testing.T) {
	cfg := types.DefaultScoringConfig()
	cfg.ContentFarmPenalty = 500
	s := New(cfg)

	score, _, err := s.Score(types.ContentItem{
		Source: types.SourceWebPage, Title: "w", URL: "https://www.buzzfeed.com/list",
		PublishedAt: day(2015), EngagementPrimary: types.MetricUnknown,
		EngagementSecondary: types.MetricUnknown, VolumeMetric: types.MetricUnknown,
		LengthMetric: types.MetricUnknown,
	})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score != 0 {
		t.Errorf("score = %f, want 0", score)
	}
}

func hasBadge(badges []string, want string) bool {
	for _, b := range badges {
		if b == want {
			return true
		}
	}
	return false
}
