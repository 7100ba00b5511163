// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize converts raw provider variants into ContentItems.
// It is the only place provider payload shapes are interpreted; past this
// boundary every item looks the same regardless of origin.
package normalize

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/preslop/preslop/internal/provider"
	"github.com/preslop/preslop/pkg/types"
)

// snippetLimit bounds normalized snippets, in runes.
const snippetLimit = 500

// NormalizationError reports a raw item that could not be converted.
// The batch continues; only the offending item is dropped.
type NormalizationError struct {
	Source types.Source
	Field  string
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalizing %s item: %s: %s", e.Source, e.Field, e.Reason)
}

// Normalize converts one raw tagged variant into a ContentItem. Missing
// optional fields become their documented defaults; a missing title or a
// non-absolute URL is a *NormalizationError. Negative metric values are
// coerced to MetricUnknown.
func Normalize(raw provider.RawItem) (types.ContentItem, error) {
	switch {
	case raw.Source == types.SourceTextDiscussion && raw.Text != nil:
		return normalizeText(raw.Text)
	case raw.Source == types.SourceVideo && raw.Video != nil:
		return normalizeVideo(raw.Video)
	case raw.Source == types.SourceWebPage && raw.Web != nil:
		return normalizeWeb(raw.Web)
	default:
		return types.ContentItem{}, &NormalizationError{
			Source: raw.Source,
			Field:  "source",
			Reason: "variant payload missing or does not match source tag",
		}
	}
}

func normalizeText(t *provider.RawTextPost) (types.ContentItem, error) {
	title, u, err := requireTitleURL(types.SourceTextDiscussion, t.Title, t.URL)
	if err != nil {
		return types.ContentItem{}, err
	}

	id := t.ID
	if id == "" {
		id = u
	}

	origin := ""
	if t.Subreddit != "" {
		origin = "r/" + t.Subreddit
	}

	return types.ContentItem{
		Source:              types.SourceTextDiscussion,
		Title:               title,
		URL:                 u,
		Snippet:             truncateRunes(strings.TrimSpace(t.SelfText), snippetLimit),
		PublishedAt:         t.Created,
		EngagementPrimary:   metric(t.Upvotes),
		EngagementSecondary: metric(t.Comments),
		VolumeMetric:        types.MetricUnknown,
		LengthMetric:        int64(utf8.RuneCountInString(t.SelfText)),
		RawSourceID:         id,
		Origin:              origin,
	}, nil
}

func normalizeVideo(v *provider.RawVideo) (types.ContentItem, error) {
	title, u, err := requireTitleURL(types.SourceVideo, v.Title, v.URL)
	if err != nil {
		return types.ContentItem{}, err
	}

	id := v.ID
	if id == "" {
		id = u
	}

	return types.ContentItem{
		Source:              types.SourceVideo,
		Title:               title,
		URL:                 u,
		Snippet:             truncateRunes(strings.TrimSpace(v.Description), snippetLimit),
		PublishedAt:         v.Published,
		EngagementPrimary:   metric(v.Likes),
		EngagementSecondary: metric(v.Comments),
		VolumeMetric:        metric(v.Views),
		LengthMetric:        metric(v.DurationSeconds),
		RawSourceID:         id,
		Origin:              v.ChannelTitle,
	}, nil
}

func normalizeWeb(w *provider.RawWebPage) (types.ContentItem, error) {
	title, u, err := requireTitleURL(types.SourceWebPage, w.Title, w.URL)
	if err != nil {
		return types.ContentItem{}, err
	}

	return types.ContentItem{
		Source:              types.SourceWebPage,
		Title:               title,
		URL:                 u,
		Snippet:             truncateRunes(strings.TrimSpace(w.Snippet), snippetLimit),
		PublishedAt:         w.Published,
		EngagementPrimary:   types.MetricUnknown,
		EngagementSecondary: types.MetricUnknown,
		VolumeMetric:        types.MetricUnknown,
		LengthMetric:        metric(w.EstimatedChars),
		RawSourceID:         u,
		Origin:              w.DisplayLink,
	}, nil
}

// requireTitleURL validates the two mandatory fields and returns them
// trimmed.
func requireTitleURL(source types.Source, title, rawURL string) (string, string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", &NormalizationError{Source: source, Field: "title", Reason: "missing"}
	}

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", "", &NormalizationError{Source: source, Field: "url", Reason: "missing"}
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", &NormalizationError{Source: source, Field: "url", Reason: "unparseable"}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", "", &NormalizationError{Source: source, Field: "url", Reason: "not an absolute http(s) URL"}
	}

	return title, rawURL, nil
}

// metric coerces negative provider values to MetricUnknown. The sentinel
// itself passes through unchanged.
func metric(n int64) int64 {
	if n < 0 {
		return types.MetricUnknown
	}
	return n
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}
