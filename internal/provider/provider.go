// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider queries content APIs (Reddit, YouTube, Google Custom
// Search) and returns raw tagged variants for the normalizer. Each adapter
// decodes its provider-native payload in this package; nothing
// provider-shaped leaks past the RawItem boundary.
package provider

import (
	"context"
	"time"

	"github.com/preslop/preslop/pkg/types"
)

// Provider searches a single content API. Adapters report their category
// through Kind and their readiness through Available; an adapter without
// credentials is skipped, never called.
type Provider interface {
	Name() string
	Kind() types.Source
	Available() bool
	Search(ctx context.Context, query string) ([]RawItem, error)
}

// RawItem is a tagged variant holding one provider result before
// normalization. Exactly one payload pointer is non-nil and it matches
// Source; the normalizer rejects anything else.
type RawItem struct {
	Source types.Source
	Text   *RawTextPost
	Video  *RawVideo
	Web    *RawWebPage
}

// RawTextPost is a discussion post as decoded from Reddit.
type RawTextPost struct {
	ID        string
	Title     string
	URL       string
	SelfText  string
	Subreddit string
	Upvotes   int64
	Comments  int64
	Created   time.Time
}

// RawVideo is a video as decoded from YouTube, with statistics merged in
// from the videos endpoint. Likes is MetricUnknown when the uploader has
// hidden the count.
type RawVideo struct {
	ID              string
	Title           string
	URL             string
	Description     string
	ChannelTitle    string
	Published       time.Time
	Views           int64
	Likes           int64
	Comments        int64
	DurationSeconds int64
}

// RawWebPage is a result as decoded from Google Custom Search. Published
// comes from pagemap metatags when present. EstimatedChars approximates
// page length from the snippet.
type RawWebPage struct {
	Title          string
	URL            string
	Snippet        string
	DisplayLink    string
	Published      time.Time
	EstimatedChars int64
}
