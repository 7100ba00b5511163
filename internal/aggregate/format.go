// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/preslop/preslop/pkg/types"
)

// FormatTable writes the result set as a human-readable table to w.
func FormatTable(set types.RankedResultSet, w io.Writer) {
	if len(set.Items) == 0 {
		fmt.Fprintln(w, "No results found.")
		fmt.Fprintln(w, providerSummary(set.Providers))
		return
	}

	fmt.Fprintf(w, "%-4s  %-5s  %-15s  %-48s  %-4s  %-20s  %s\n",
		"Rank", "Score", "Source", "Title", "Year", "Origin", "Badges")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, item := range set.Items {
		year := ""
		if !item.PublishedAt.IsZero() {
			year = fmt.Sprintf("%d", item.PublishedAt.Year())
		}
		fmt.Fprintf(w, "%-4d  %-5.0f  %-15s  %-48s  %-4s  %-20s  %s\n",
			i+1,
			item.QualityScore,
			item.Source,
			truncate(item.Title, 48),
			year,
			truncate(item.Origin, 20),
			strings.Join(item.Badges, ", "))
	}

	fmt.Fprintf(w, "\n%d results in %dms\n", len(set.Items), set.TookMs)
	fmt.Fprintln(w, providerSummary(set.Providers))
}

// FormatJSON writes the full result set as indented JSON to w.
func FormatJSON(set types.RankedResultSet, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(set)
}

// providerSummary renders the status map in stable name order.
func providerSummary(statuses map[string]types.ProviderStatus) string {
	if len(statuses) == 0 {
		return "providers: none"
	}
	names := make([]string, 0, len(statuses))
	for name := range statuses {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %s", name, statuses[name]))
	}
	return "providers: " + strings.Join(parts, ", ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
