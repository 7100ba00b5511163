// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/preslop/preslop/pkg/types"
)

func sampleSet() types.RankedResultSet {
	return types.RankedResultSet{
		SearchID: "abc-123",
		Query:    "chisel sharpening",
		Filter:   types.FilterAll,
		Items: []types.ContentItem{
			{
				Source:       types.SourceTextDiscussion,
				Title:        "How do you sharpen a chisel by hand?",
				URL:          "https://www.reddit.com/r/woodworking/comments/abc/",
				PublishedAt:  time.Date(2012, 6, 1, 0, 0, 0, 0, time.UTC),
				QualityScore: 72,
				Badges:       []string{"golden era", "hidden gem"},
				RawSourceID:  "abc",
				Origin:       "r/woodworking",
			},
			{
				Source:       types.SourceWebPage,
				Title:        "Sharpening station setup",
				URL:          "http://sharpening.blogspot.com/2011/03/setup.html",
				QualityScore: 55,
				RawSourceID:  "http://sharpening.blogspot.com/2011/03/setup.html",
				Origin:       "sharpening.blogspot.com",
			},
		},
		Providers: map[string]types.ProviderStatus{
			"reddit":  types.ProviderOK,
			"google":  types.ProviderOK,
			"youtube": types.ProviderDisabled,
		},
		TookMs: 420,
	}
}

func TestFormatTable(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(sampleSet(), &buf)
	s := buf.String()

	if !strings.Contains(s, "How do you sharpen a chisel by hand?") {
		t.Error("table should contain the first title")
	}
	if !strings.Contains(s, "golden era, hidden gem") {
		t.Error("table should join badges with commas")
	}
	if !strings.Contains(s, "2012") {
		t.Error("table should show the publication year")
	}
	if !strings.Contains(s, "2 results in 420ms") {
		t.Error("table should contain the summary line")
	}
	if !strings.Contains(s, "providers: google ok, reddit ok, youtube disabled") {
		t.Errorf("provider summary wrong or unsorted:\n%s", s)
	}
}

func TestFormatTableUnknownYearBlank(t *testing.T) {
	set := sampleSet()
	var buf bytes.Buffer
	FormatTable(set, &buf)

	// The undated blogspot row renders with an empty year column.
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, "Sharpening station setup") && strings.Contains(line, "0001") {
			t.Errorf("zero date leaked into output: %s", line)
		}
	}
}

func TestFormatTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	FormatTable(types.RankedResultSet{
		Providers: map[string]types.ProviderStatus{"reddit": types.ProviderError},
	}, &buf)
	s := buf.String()

	if !strings.Contains(s, "No results found.") {
		t.Error("empty output should say 'No results found.'")
	}
	if !strings.Contains(s, "reddit error") {
		t.Error("empty output should still report provider statuses")
	}
}

func TestFormatJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatJSON(sampleSet(), &buf); err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}

	var parsed types.RankedResultSet
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("invalid JSON output: %v", err)
	}
	if parsed.SearchID != "abc-123" {
		t.Errorf("SearchID = %q", parsed.SearchID)
	}
	if len(parsed.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(parsed.Items))
	}
	if parsed.Providers["youtube"] != types.ProviderDisabled {
		t.Errorf("youtube status = %q", parsed.Providers["youtube"])
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input string
		max   int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten..", 13, "exactly ten.."},
		{"a very long title that needs cutting", 10, "a very ..."},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := truncate(tt.input, tt.max); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}
