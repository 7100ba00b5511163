package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/preslop/preslop/internal/provider"
	"github.com/preslop/preslop/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(types.CacheConfig{
		Path: filepath.Join(t.TempDir(), "cache.db"),
		TTL:  time.Hour,
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleItems() []provider.RawItem {
	return []provider.RawItem{
		{
			Source: types.SourceTextDiscussion,
			Text: &provider.RawTextPost{
				ID:        "abc123",
				Title:     "How do you sharpen a chisel by hand?",
				URL:       "https://www.reddit.com/r/woodworking/comments/abc123/",
				SelfText:  "Long discussion of waterstones versus oilstones.",
				Subreddit: "woodworking",
				Upvotes:   120,
				Comments:  45,
				Created:   time.Date(2012, 6, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			Source: types.SourceWebPage,
			Web: &provider.RawWebPage{
				Title:          "Sharpening by hand",
				URL:            "http://sharpening.blogspot.com/2011/03/by-hand.html",
				Snippet:        "A hand-sharpening tutorial.",
				DisplayLink:    "sharpening.blogspot.com",
				Published:      time.Date(2011, 3, 10, 0, 0, 0, 0, time.UTC),
				EstimatedChars: 300,
			},
		},
	}
}

// backdate rewrites an entry's timestamp so it looks older than age.
func backdate(t *testing.T, store *Store, providerName, query string, age time.Duration) {
	t.Helper()
	old := time.Now().UTC().Add(-age).Format(time.RFC3339Nano)
	_, err := store.db.Exec(
		`UPDATE responses SET fetched_at = ? WHERE provider = ? AND query = ?`,
		old, providerName, query,
	)
	if err != nil {
		t.Fatal(err)
	}
}

type stubProvider struct {
	name  string
	kind  types.Source
	items []provider.RawItem
	err   error
	calls int
}

func (s *stubProvider) Name() string       { return s.name }
func (s *stubProvider) Kind() types.Source { return s.kind }
func (s *stubProvider) Available() bool    { return true }

func (s *stubProvider) Search(ctx context.Context, query string) ([]provider.RawItem, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

// --- store tests ---

func TestOpenCreatesSchema(t *testing.T) {
	store := testStore(t)

	var count int
	err := store.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'responses'`,
	).Scan(&count)
	if err != nil {
		t.Fatal(err)
	}
	if count == 0 {
		t.Error("responses table does not exist")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "reddit", "chisel sharpening", sampleItems()); err != nil {
		t.Fatal(err)
	}

	items, hit, err := store.Get(ctx, "reddit", "chisel sharpening")
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Fatal("expected a cache hit")
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Text == nil || items[0].Text.Title != "How do you sharpen a chisel by hand?" {
		t.Errorf("text item did not round-trip: %+v", items[0])
	}
	if items[0].Text.Upvotes != 120 || items[0].Text.Comments != 45 {
		t.Errorf("counters did not round-trip: %+v", items[0].Text)
	}
	if !items[0].Text.Created.Equal(time.Date(2012, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Created = %v", items[0].Text.Created)
	}
	if items[1].Web == nil || items[1].Web.EstimatedChars != 300 {
		t.Errorf("web item did not round-trip: %+v", items[1])
	}
}

func TestGetMissOnAbsentEntry(t *testing.T) {
	store := testStore(t)

	_, hit, err := store.Get(context.Background(), "reddit", "never cached")
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("expected a miss for an absent entry")
	}
}

func TestGetMissOnExpiredEntry(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "youtube", "old query", sampleItems()); err != nil {
		t.Fatal(err)
	}
	backdate(t, store, "youtube", "old query", 2*time.Hour)

	_, hit, err := store.Get(ctx, "youtube", "old query")
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("expected a miss for an expired entry")
	}
}

func TestPutReplacesEntry(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "reddit", "q", sampleItems()); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, "reddit", "q", sampleItems()[:1]); err != nil {
		t.Fatal(err)
	}

	items, hit, err := store.Get(ctx, "reddit", "q")
	if err != nil {
		t.Fatal(err)
	}
	if !hit {
		t.Fatal("expected a hit")
	}
	if len(items) != 1 {
		t.Errorf("got %d items, want 1 after replacement", len(items))
	}
}

func TestEntriesKeyedByProvider(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "reddit", "q", sampleItems()); err != nil {
		t.Fatal(err)
	}

	_, hit, err := store.Get(ctx, "youtube", "q")
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("entry for one provider should not serve another")
	}
}

func TestPruneRemovesExpired(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "reddit", "fresh", sampleItems()); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, "reddit", "stale", sampleItems()); err != nil {
		t.Fatal(err)
	}
	backdate(t, store, "reddit", "stale", 2*time.Hour)

	if err := store.Prune(ctx); err != nil {
		t.Fatal(err)
	}

	var count int
	if err := store.db.QueryRow(`SELECT count(*) FROM responses`).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("got %d entries after prune, want 1", count)
	}
}

// --- decorator tests ---

func TestWrapServesSecondSearchFromCache(t *testing.T) {
	store := testStore(t)
	stub := &stubProvider{name: "stub", kind: types.SourceTextDiscussion, items: sampleItems()}
	wrapped := Wrap(stub, store, nil, nil)

	ctx := context.Background()
	first, err := wrapped.Search(ctx, "chisel sharpening")
	if err != nil {
		t.Fatal(err)
	}
	second, err := wrapped.Search(ctx, "chisel sharpening")
	if err != nil {
		t.Fatal(err)
	}

	if stub.calls != 1 {
		t.Errorf("provider called %d times, want 1", stub.calls)
	}
	if len(first) != len(second) {
		t.Errorf("cached result has %d items, fetched had %d", len(second), len(first))
	}
}

func TestWrapDistinctQueriesBothReachProvider(t *testing.T) {
	store := testStore(t)
	stub := &stubProvider{name: "stub", kind: types.SourceVideo, items: sampleItems()}
	wrapped := Wrap(stub, store, nil, nil)

	ctx := context.Background()
	if _, err := wrapped.Search(ctx, "first"); err != nil {
		t.Fatal(err)
	}
	if _, err := wrapped.Search(ctx, "second"); err != nil {
		t.Fatal(err)
	}
	if stub.calls != 2 {
		t.Errorf("provider called %d times, want 2", stub.calls)
	}
}

func TestWrapProviderErrorNotCached(t *testing.T) {
	store := testStore(t)
	stub := &stubProvider{name: "stub", kind: types.SourceWebPage, err: errors.New("upstream down")}
	wrapped := Wrap(stub, store, nil, nil)

	ctx := context.Background()
	if _, err := wrapped.Search(ctx, "q"); err == nil {
		t.Fatal("expected the provider error to propagate")
	}

	// Provider recovers; the failed attempt must not have been cached.
	stub.err = nil
	stub.items = sampleItems()
	items, err := wrapped.Search(ctx, "q")
	if err != nil {
		t.Fatal(err)
	}
	if stub.calls != 2 {
		t.Errorf("provider called %d times, want 2", stub.calls)
	}
	if len(items) != 2 {
		t.Errorf("got %d items, want 2", len(items))
	}
}

func TestWrapNilStoreReturnsProviderUnchanged(t *testing.T) {
	stub := &stubProvider{name: "stub", kind: types.SourceTextDiscussion}
	if got := Wrap(stub, nil, nil, nil); got != provider.Provider(stub) {
		t.Error("Wrap with nil store should return the provider itself")
	}
}

func TestWrapPassesThroughIdentity(t *testing.T) {
	store := testStore(t)
	stub := &stubProvider{name: "stub", kind: types.SourceVideo}
	wrapped := Wrap(stub, store, nil, nil)

	if wrapped.Name() != "stub" {
		t.Errorf("Name() = %q", wrapped.Name())
	}
	if wrapped.Kind() != types.SourceVideo {
		t.Errorf("Kind() = %q", wrapped.Kind())
	}
	if !wrapped.Available() {
		t.Error("Available() = false, want true")
	}
}
