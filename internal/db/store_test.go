package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/user/pinsync/internal/syncer"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "pinsync.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func findByDescription(t *testing.T, store *Store, description string) Bookmark {
	t.Helper()
	all, err := store.List(context.Background(), 100)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, b := range all {
		if b.Description == description {
			return b
		}
	}
	t.Fatalf("no bookmark with description %q", description)
	return Bookmark{}
}

func TestUpsertReturningNew(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	b1 := &Bookmark{
		URL:         "https://go.dev/blog",
		Description: "The Go Blog",
		Path:        "/tmp/The Go Blog.webloc",
	}
	isNew, err := store.UpsertReturningNew(ctx, b1)
	if err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}
	if !isNew {
		t.Error("Expected isNew=true for new insert")
	}

	// Same description is the same identity
	b2 := &Bookmark{
		URL:         "https://go.dev/blog/",
		Description: "The Go Blog",
		Tags:        "go blog",
		Path:        "/tmp/The Go Blog.webloc",
	}
	isNew, err = store.UpsertReturningNew(ctx, b2)
	if err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}
	if isNew {
		t.Error("Expected isNew=false for existing update")
	}

	got := findByDescription(t, store, "The Go Blog")
	if got.URL != "https://go.dev/blog/" || got.Tags != "go blog" {
		t.Errorf("update not applied: %+v", got)
	}

	count, _ := store.Count(ctx)
	if count != 1 {
		t.Errorf("Expected 1 bookmark, got %d", count)
	}
}

func TestRecordArtifact(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	synced := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	posted := time.Date(2023, 12, 24, 8, 30, 0, 0, time.UTC)
	a := syncer.Artifact{
		Path: "/out/foo.webloc",
		Bookmark: syncer.Bookmark{
			URL:         "https://foo.example",
			Description: "foo",
			Extended:    "notes",
			Tags:        []string{"a", "b"},
			Time:        posted,
		},
		SyncedAt: synced,
	}
	isNew, err := store.RecordArtifact(ctx, a)
	if err != nil {
		t.Fatalf("RecordArtifact: %v", err)
	}
	if !isNew {
		t.Error("expected first record to be new")
	}

	got := findByDescription(t, store, "foo")
	if got.ID != generateID("foo") {
		t.Errorf("ID = %q, want %q", got.ID, generateID("foo"))
	}
	if got.Tags != "a b" || got.Extended != "notes" || got.Path != "/out/foo.webloc" {
		t.Errorf("unexpected row: %+v", got)
	}
	if !got.SyncedAt.Equal(synced) {
		t.Errorf("SyncedAt = %s, want %s", got.SyncedAt, synced)
	}
	if !got.PostedAt.Equal(posted) {
		t.Errorf("PostedAt = %s, want %s", got.PostedAt, posted)
	}

	isNew, err = store.RecordArtifact(ctx, a)
	if err != nil {
		t.Fatalf("RecordArtifact again: %v", err)
	}
	if isNew {
		t.Error("expected re-recording the same description to report an update")
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, d := range []string{"first", "second", "third"} {
		b := &Bookmark{URL: "https://" + d + ".example", Description: d, Path: "/out/" + d, SyncedAt: base.Add(time.Duration(i) * time.Hour)}
		if _, err := store.UpsertReturningNew(ctx, b); err != nil {
			t.Fatalf("upsert %s: %v", d, err)
		}
	}

	list, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Description != "third" || list[1].Description != "second" {
		t.Fatalf("unexpected order: %+v", list)
	}

	count, _ := store.Count(ctx)
	if count != 3 {
		t.Errorf("Expected 3 bookmarks, got %d", count)
	}
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	rows := []Bookmark{
		{URL: "https://go.dev", Description: "Go programming language", Tags: "golang lang", Path: "/a"},
		{URL: "https://rust-lang.org", Description: "Rust", Extended: "systems language", Tags: "rust", Path: "/b"},
		{URL: "https://example.com/100%", Description: "Percent_sign page", Path: "/c"},
	}
	for i := range rows {
		if _, err := store.UpsertReturningNew(ctx, &rows[i]); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	got, err := store.Search(ctx, "golang", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].URL != "https://go.dev" {
		t.Errorf("Search(golang) = %+v", got)
	}

	got, err = store.Search(ctx, "systems", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Description != "Rust" {
		t.Errorf("Search(systems) = %+v", got)
	}

	// Not valid FTS syntax, served by the LIKE fallback
	got, err = store.Search(ctx, `100%`, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Description != "Percent_sign page" {
		t.Errorf("Search(100%%) = %+v", got)
	}

	all, err := store.Search(ctx, "  ", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("empty query should list everything, got %d", len(all))
	}
}

func TestMetadata(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	v, err := store.GetMetadata(ctx, "missing")
	if err != nil || v != "" {
		t.Fatalf("GetMetadata(missing) = %q, %v", v, err)
	}
	if err := store.SetMetadata(ctx, "k", "v1"); err != nil {
		t.Fatal(err)
	}
	if err := store.SetMetadata(ctx, "k", "v2"); err != nil {
		t.Fatal(err)
	}
	v, _ = store.GetMetadata(ctx, "k")
	if v != "v2" {
		t.Errorf("GetMetadata(k) = %q, want v2", v)
	}
}
